package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	appshipment "github.com/parcelco/backoffice/internal/application/shipment"
	"github.com/parcelco/backoffice/internal/domain/shared"
)

// Lister runs one listing query
type Lister interface {
	List(ctx context.Context, query appshipment.ListQuery) (*appshipment.ListResult, error)
}

// LiveRequest is a filter change sent by the client. Seq is echoed back.
type LiveRequest struct {
	Seq   uint64                `json:"seq"`
	Query appshipment.ListQuery `json:"query"`
}

// LiveResponse carries the result of the latest request
type LiveResponse struct {
	Type  string                  `json:"type"`
	Seq   uint64                  `json:"seq"`
	Data  *appshipment.ListResult `json:"data,omitempty"`
	Error *LiveError              `json:"error,omitempty"`
}

// LiveError mirrors the HTTP error body
type LiveError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LiveListing serves the back office shipment listing over a websocket.
// Every message starts a new query; older queries are cancelled and their
// results dropped.
type LiveListing struct {
	lister   Lister
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewLiveListing creates a LiveListing
func NewLiveListing(lister Lister, allowedOrigins []string, logger *zap.Logger) *LiveListing {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveListing{lister: lister, upgrader: newUpgrader(allowedOrigins), logger: logger}
}

// Serve upgrades the request and runs the session until the client leaves
// or ctx ends
func (l *LiveListing) Serve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	conn, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	send := make(chan []byte, sendBuffer)
	var latest Latest
	defer func() {
		latest.Stop()
		// Stop holds the lock any Deliver needs, so nothing sends after this
		close(send)
	}()
	go writePump(conn, send)

	prepareRead(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.logger.Debug("live listing read failed", zap.Error(err))
			}
			return nil
		}

		var req LiveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			l.reply(send, LiveResponse{Type: "error", Error: &LiveError{Code: "INVALID_INPUT", Message: "malformed request"}})
			continue
		}

		qctx, gen := latest.Begin(ctx)
		go l.run(qctx, &latest, gen, req, send)
	}
}

func (l *LiveListing) run(ctx context.Context, latest *Latest, gen uint64, req LiveRequest, send chan<- []byte) {
	result, err := l.lister.List(ctx, req.Query)
	if errors.Is(err, context.Canceled) {
		return
	}

	resp := LiveResponse{Type: "result", Seq: req.Seq, Data: result}
	if err != nil {
		resp = LiveResponse{Type: "error", Seq: req.Seq, Error: liveError(err)}
	}

	delivered := latest.Deliver(gen, func() { l.reply(send, resp) })
	if !delivered {
		l.logger.Debug("dropping superseded live listing result", zap.Uint64("seq", req.Seq))
	}
}

// reply never blocks; a client that cannot keep up loses responses
func (l *LiveListing) reply(send chan<- []byte, resp LiveResponse) {
	msg, err := json.Marshal(resp)
	if err != nil {
		l.logger.Error("failed to encode live listing response", zap.Error(err))
		return
	}
	select {
	case send <- msg:
	default:
		l.logger.Warn("live listing client too slow, dropping response", zap.Uint64("seq", resp.Seq))
	}
}

func liveError(err error) *LiveError {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return &LiveError{Code: de.Code, Message: de.Message}
	}
	return &LiveError{Code: "INTERNAL_ERROR", Message: "An internal error occurred"}
}
