package http

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/dongne/internal/adapters/nats"
	"github.com/samirrijal/dongne/internal/core/domain"
	"github.com/samirrijal/dongne/internal/pkg/geospatial"
	"github.com/samirrijal/dongne/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action  string   `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string   `json:"channel"` // "nearby" | "status" | "all"
	Lat     *float64 `json:"lat"`     // nearby only
	Lng     *float64 `json:"lng"`     // nearby only
	Status  string   `json:"status"`  // status only
}

// wsSubjects maps a client message onto the NATS subjects it covers.
func wsSubjects(m wsMessage) ([]string, error) {
	switch m.Channel {
	case "nearby":
		if m.Lat == nil || m.Lng == nil {
			return nil, errors.New("nearby channel needs lat and lng")
		}
		p := domain.GeoPoint{Latitude: *m.Lat, Longitude: *m.Lng}
		if !geospatial.IsValidCoordinate(p) {
			return nil, errors.New("lat/lng out of range")
		}
		return natsadapter.NeighbourhoodSubjects(p), nil
	case "status":
		status := domain.ListingStatus(m.Status)
		if !status.Valid() {
			return nil, errors.New("status must be one of: available, reserved, sold")
		}
		return []string{natsadapter.StatusSubject(status)}, nil
	case "all", "":
		return []string{natsadapter.AllSubjects}, nil
	}
	return nil, errors.New("unknown channel: " + m.Channel)
}

// WebSocketHandler relays listing events from NATS to the connected client.
// Clients send JSON such as
// {"action":"subscribe","channel":"nearby","lat":37.5665,"lng":126.978}
// to follow new listings around a point, or
// {"action":"subscribe","channel":"status","status":"sold"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())
		log.Debug("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			mu.Lock()
			defer mu.Unlock()
			_ = c.WriteMessage(websocket.TextMessage, msg.Data)
		}

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subjects, err := wsSubjects(m)
			if err != nil {
				_ = writeJSON(map[string]string{"error": err.Error()})
				continue
			}

			switch m.Action {
			case "subscribe":
				var added []string
				for _, subject := range subjects {
					if _, exists := subs[subject]; exists {
						continue
					}
					s, err := nc.Subscribe(subject, relay)
					if err != nil {
						log.Warn("ws subscribe failed", "subject", subject, "error", err)
						_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
						break
					}
					subs[subject] = s
					added = append(added, subject)
				}
				_ = writeJSON(map[string]interface{}{"status": "subscribed", "subjects": added})

			case "unsubscribe":
				var removed []string
				for _, subject := range subjects {
					if s, exists := subs[subject]; exists {
						_ = s.Unsubscribe()
						delete(subs, subject)
						removed = append(removed, subject)
					}
				}
				_ = writeJSON(map[string]interface{}{"status": "unsubscribed", "subjects": removed})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Debug("ws client disconnected")
	}
}
