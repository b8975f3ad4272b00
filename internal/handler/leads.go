package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"juros-justos/internal/analytics"
	"juros-justos/internal/lead"

	"github.com/gin-gonic/gin"
)

type LeadHandler struct {
	svc     *lead.Service
	tracker analytics.Tracker
}

func NewLeadHandler(svc *lead.Service, tracker analytics.Tracker) *LeadHandler {
	return &LeadHandler{svc: svc, tracker: analytics.OrNoop(tracker)}
}

// Submit godoc
// @Summary Send a consultation request
// @Accept json
// @Produce json
// @Param request body lead.Form true "Contact data"
// @Success 201 {object} map[string]string
// @Failure 400 {object} ErrorsResponse
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/leads [post]
func (h *LeadHandler) Submit(c *gin.Context) {
	var form lead.Form
	if !bindBody(c, &form) {
		return
	}

	stored, err := h.svc.Submit(c.Request.Context(), form)
	if err != nil {
		var verr *lead.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, ErrorsResponse{Errors: verr.Errors})
		case errors.Is(err, lead.ErrSubmissionInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": lead.MsgInProgress})
		default:
			// details were logged by the service
			c.JSON(http.StatusBadGateway, gin.H{"error": lead.MsgFailure})
		}
		return
	}

	slog.Info("Lead accepted", "lead_id", stored.ID)
	c.JSON(http.StatusCreated, gin.H{"message": lead.MsgSuccess, "id": stored.ID})
}

// CaptureOpened records that the visitor opened the consultation form.
func (h *LeadHandler) CaptureOpened(c *gin.Context) {
	analytics.Emit(c.Request.Context(), h.tracker, analytics.EventCaptureOpened, map[string]any{})
	c.Status(http.StatusNoContent)
}
