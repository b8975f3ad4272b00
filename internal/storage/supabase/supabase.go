// Package supabase inserts leads through the hosted backend's REST
// interface (PostgREST), authenticating with the project's public key.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"juros-justos/internal/domain"
	"juros-justos/internal/storage"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
)

const maxErrorBody = 4 << 10

const insertPath = "/rest/v1/" + storage.LeadsTable

type Client struct {
	client *resty.Client
}

var _ storage.LeadStorage = (*Client)(nil)

// New builds a client for the project at baseURL. A service-role or expired
// key is accepted but logged, since the public site must use the anon key.
func New(baseURL, apiKey string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", baseURL)
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("supabase api key is empty")
	}

	if info, err := InspectKey(apiKey, time.Now()); err != nil {
		slog.Debug("Supabase key is not a JWT, skipping inspection", "error", err)
	} else {
		if info.Role == "service_role" {
			slog.Warn("Supabase key has service_role; use the anon key for lead capture")
		}
		if info.Expired {
			slog.Warn("Supabase key is expired", "expires_at", info.ExpiresAt)
		}
	}

	client := resty.New()
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	}
	client.SetBaseURL(u.String()).SetHeaders(map[string]string{
		"apikey":        apiKey,
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
		"Prefer":        "return=minimal",
	})

	return &Client{client: client}, nil
}

type insertRow struct {
	ID                string `json:"id,omitempty"`
	NomeCompleto      string `json:"nome_completo"`
	WhatsApp          string `json:"whatsapp"`
	Email             string `json:"email"`
	CidadeEstado      string `json:"cidade_estado"`
	DescricaoSituacao string `json:"descricao_situacao"`
}

// APIError is a non-2xx answer from PostgREST.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, msg)
}

// InsertLead sends a single insert. It is never retried.
func (c *Client) InsertLead(ctx context.Context, lead *domain.Lead) error {
	apiErr := &APIError{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody([]insertRow{{
			ID:                lead.ID,
			NomeCompleto:      lead.NomeCompleto,
			WhatsApp:          lead.WhatsApp,
			Email:             lead.Email,
			CidadeEstado:      lead.CidadeEstado,
			DescricaoSituacao: lead.DescricaoSituacao,
		}}).
		SetError(apiErr).
		Post(insertPath)

	// A rejection whose body is not valid JSON still surfaces as APIError.
	if resp != nil && resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" && apiErr.Code == "" {
			apiErr.Message = truncate(strings.TrimSpace(resp.String()), maxErrorBody)
		}
		return apiErr
	}
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	if !resp.IsSuccess() {
		return &APIError{Status: resp.StatusCode()}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type KeyInfo struct {
	Role      string
	ExpiresAt time.Time
	Expired   bool
}

// InspectKey reads the claims of a Supabase JWT key without verifying its
// signature; the signing secret lives with the hosted backend.
func InspectKey(key string, now time.Time) (KeyInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, fmt.Errorf("parse key: %w", err)
	}

	var info KeyInfo
	info.Role, _ = claims["role"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return KeyInfo{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = now.After(exp.Time)
	}
	return info, nil
}
