package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickingTracker struct{}

func (panickingTracker) Track(context.Context, string, map[string]any) { panic("boom") }

func TestEmitToleratesMissingAndPanickingTrackers(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		Emit(context.Background(), nil, EventCalculatorUsed, nil)
	})
	assert.NotPanics(t, func() {
		Emit(context.Background(), panickingTracker{}, EventCalculatorUsed, nil)
	})
}

func TestOrNoop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Noop{}, OrNoop(nil))

	rec := &Recorder{}
	assert.Same(t, rec, OrNoop(rec))
}

func TestRecorderCopiesProps(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	props := map[string]any{"tipo_credito": "credito_pessoal"}
	rec.Track(context.Background(), EventCalculatorUsed, props)
	props["tipo_credito"] = "changed"

	events := rec.Named(EventCalculatorUsed)
	require.Len(t, events, 1)
	assert.Equal(t, "credito_pessoal", events[0].Props["tipo_credito"])
	assert.Empty(t, rec.Named(EventLeadSubmitted))
}

func TestHTTPCollectorPostsEvent(t *testing.T) {
	t.Parallel()

	received := make(chan collectorPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p collectorPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		received <- p
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPCollector(srv.URL, nil)
	c.Track(context.Background(), EventCaptureOpened, map[string]any{"origem": "calculadora"})

	select {
	case p := <-received:
		assert.Equal(t, EventCaptureOpened, p.Event)
		assert.Equal(t, "calculadora", p.Properties["origem"])
		assert.False(t, p.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not receive the event")
	}
}

func TestHTTPCollectorDoesNotBlockOnUnreachableEndpoint(t *testing.T) {
	t.Parallel()

	c := NewHTTPCollector("http://127.0.0.1:1/events", nil)

	done := make(chan struct{})
	go func() {
		c.Track(context.Background(), EventCalculatorUsed, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Track blocked the caller")
	}
}

func TestHTTPCollectorSendReportsRejection(t *testing.T) {
	t.Parallel()

	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPCollector(srv.URL, nil)
	err := c.send(collectorPayload{Event: EventLeadSubmitted, Timestamp: time.Now().UTC()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, contentType, "application/json")

	unreachable := NewHTTPCollector("http://127.0.0.1:1/events", nil)
	require.Error(t, unreachable.send(collectorPayload{Event: EventLeadSubmitted}))
}
