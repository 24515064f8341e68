package transport

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/goodnatureofminers/onclick-backend/internal/service"
	"go.uber.org/zap"
)

const outcomeStreamBuffer = 32

// CloseStreams ends every open outcome stream. Streams never finish on their
// own, so it is meant for http.Server.RegisterOnShutdown.
func (h *ClaimHandler) CloseStreams() {
	h.closeOnce.Do(func() {
		close(h.streamsDone)
	})
}

// streamOutcomes writes every dispatched outcome as a server-sent event
// until the client goes away or CloseStreams is called.
func (h *ClaimHandler) streamOutcomes(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	if h.outcomes == nil {
		h.writeJSON(w, http.StatusNotFound, errorBody{Error: "outcome stream is not enabled"})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeJSON(w, http.StatusInternalServerError, errorBody{Error: "streaming is not supported"})
		return
	}

	outcomes, unsubscribe := h.outcomes.Subscribe(outcomeStreamBuffer)
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.streamsDone:
			return
		case o, ok := <-outcomes:
			if !ok {
				return
			}
			if err := writeEvent(w, o); err != nil {
				h.logger.Debug("outcome stream closed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, o service.Outcome) error {
	data, err := json.Marshal(o)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: outcome\ndata: %s\n\n", o.ID, data)
	return err
}
