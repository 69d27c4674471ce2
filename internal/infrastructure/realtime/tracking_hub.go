package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/parcelco/backoffice/internal/domain/shipment"
)

// TrackingUpdate is pushed to every subscriber of a tracking number
type TrackingUpdate struct {
	Type           string    `json:"type"`
	TrackingNumber string    `json:"tracking_number"`
	Status         string    `json:"status,omitempty"`
	StatusLabel    string    `json:"status_label,omitempty"`
	Location       string    `json:"location,omitempty"`
	Description    string    `json:"description,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type subscriber struct {
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// TrackingHub fans shipment status changes out to websocket subscribers
// keyed by tracking number
type TrackingHub struct {
	mu       sync.RWMutex
	subs     map[string]map[*subscriber]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewTrackingHub creates a hub accepting connections from allowedOrigins
func NewTrackingHub(allowedOrigins []string, logger *zap.Logger) *TrackingHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingHub{
		subs:     make(map[string]map[*subscriber]struct{}),
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger,
	}
}

func normalizeNumber(tn string) string {
	return strings.ToUpper(strings.TrimSpace(tn))
}

func (h *TrackingHub) subscribe(tn string) *subscriber {
	s := &subscriber{send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[tn] == nil {
		h.subs[tn] = make(map[*subscriber]struct{})
	}
	h.subs[tn][s] = struct{}{}
	return s
}

func (h *TrackingHub) unsubscribe(tn string, s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[tn]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			s.close()
		}
		if len(set) == 0 {
			delete(h.subs, tn)
		}
	}
}

// Subscribers returns the number of open sessions for a tracking number
func (h *TrackingHub) Subscribers(trackingNumber string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[normalizeNumber(trackingNumber)])
}

// Serve upgrades the request and streams updates for trackingNumber until
// the client disconnects. The caller has already checked that the parcel exists.
func (h *TrackingHub) Serve(w http.ResponseWriter, r *http.Request, trackingNumber string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	tn := normalizeNumber(trackingNumber)
	sub := h.subscribe(tn)
	h.logger.Debug("tracking subscriber connected", zap.String("tracking_number", tn))

	go writePump(conn, sub.send)

	prepareRead(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.unsubscribe(tn, sub)
	h.logger.Debug("tracking subscriber disconnected", zap.String("tracking_number", tn))
	return nil
}

// EventTypes implements shared.EventHandler
func (h *TrackingHub) EventTypes() []string {
	return []string{shipment.EventTypeShipmentStatusChanged, shipment.EventTypeShipmentDeleted}
}

// Handle implements shared.EventHandler
func (h *TrackingHub) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *shipment.ShipmentStatusChangedEvent:
		h.broadcast(normalizeNumber(e.TrackingNumber), TrackingUpdate{
			Type:           "status_changed",
			TrackingNumber: e.TrackingNumber,
			Status:         e.NewStatus.String(),
			StatusLabel:    e.NewStatus.Label(),
			Location:       e.Location,
			Description:    e.Description,
			Timestamp:      e.ChangedAt,
		}, false)
	case *shipment.ShipmentDeletedEvent:
		h.broadcast(normalizeNumber(e.TrackingNumber), TrackingUpdate{
			Type:           "deleted",
			TrackingNumber: e.TrackingNumber,
			Timestamp:      e.OccurredAt(),
		}, true)
	}
	return nil
}

// broadcast queues update for every subscriber of tn. Subscribers whose
// buffer is full are disconnected; closeAfter ends every session.
func (h *TrackingHub) broadcast(tn string, update TrackingUpdate, closeAfter bool) {
	msg, err := json.Marshal(update)
	if err != nil {
		h.logger.Error("failed to encode tracking update", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[tn] {
		select {
		case s.send <- msg:
		default:
			h.logger.Warn("tracking subscriber too slow, dropping", zap.String("tracking_number", tn))
			delete(h.subs[tn], s)
			s.close()
			continue
		}
		if closeAfter {
			delete(h.subs[tn], s)
			s.close()
		}
	}
	if len(h.subs[tn]) == 0 {
		delete(h.subs, tn)
	}
}

var _ shared.EventHandler = (*TrackingHub)(nil)
