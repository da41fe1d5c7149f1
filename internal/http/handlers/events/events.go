package events

import (
	"net/http"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/http/handlers/response"

	"github.com/r3labs/sse/v2"
)

type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
	stream    string
}

// New creates the handler subscribing clients to a single event stream.
func New(log logging.Logger, sseServer *sse.Server, stream string) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer, stream: stream}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	streamID := r.URL.Query().Get("stream")
	if streamID != h.stream || !h.sseServer.StreamExists(streamID) {
		response.RenderError(rw, "unknown event stream", http.StatusNotFound)
		return
	}

	h.log.Info(r.Context(), "Subscribed to events.", logging.Entry("remoteAddr", r.RemoteAddr))
	h.sseServer.ServeHTTP(rw, r)
	h.log.Info(r.Context(), "Unsubscribed from events.", logging.Entry("remoteAddr", r.RemoteAddr))
}
