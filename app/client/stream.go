package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	log "github.com/go-pkgz/lgr"
	"github.com/gorilla/websocket"

	"scribefeed/app/feed"
)

// wire envelope for the events websocket. The server sends full snapshots under
// type "jobs" and bare pings under type "ping", anything else is ignored.
type wsEvent struct {
	Type string     `json:"type"`
	Jobs []feed.Job `json:"jobs,omitempty"`
}

// Subscribe opens the events websocket and starts pumping frames into the returned
// subscription. The caller owns the subscription and must Close it.
func (c *Client) Subscribe(ctx context.Context) (feed.Subscription, error) {
	wsURL := c.eventsURL()
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, resp, err := c.dialer.DialContext(dialCtx, wsURL, header) //nolint:bodyclose // closed right below
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("events dial failed, status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("events dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	sub := &subscription{conn: conn, events: make(chan feed.Event, 16), done: make(chan struct{})}
	go sub.read()
	return sub, nil
}

// eventsURL converts the http(s) base to the ws(s) events endpoint.
func (c *Client) eventsURL() string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/v1/events"
}

// subscription wraps a live websocket. The read pump exits on any read error or
// when Close is called, closing the events channel either way.
type subscription struct {
	conn   *websocket.Conn
	events chan feed.Event
	done   chan struct{}

	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

// Events returns the channel of incoming events, closed when the stream ends.
func (s *subscription) Events() <-chan feed.Event { return s.events }

// Err reports why the stream ended, nil for a deliberate Close.
func (s *subscription) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Close tears the websocket down. Safe to call more than once and concurrently
// with the read pump.
func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}

func (s *subscription) read() {
	defer close(s.events)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.setErr(err)
			return
		}

		var ev wsEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("[WARN] bad event frame ignored: %v", err)
			continue
		}

		switch ev.Type {
		case "ping":
			if !s.emit(feed.Event{Heartbeat: true}) {
				return
			}
		case "jobs":
			if !s.emit(feed.Event{Jobs: ev.Jobs}) {
				return
			}
		default:
			log.Printf("[DEBUG] event type %q ignored", ev.Type)
		}
	}
}

// emit delivers an event unless the subscription is shut down. Blocking forever on
// a consumer that already left would leak the pump.
func (s *subscription) emit(ev feed.Event) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *subscription) setErr(err error) {
	select {
	case <-s.done: // deliberate close, the read error is just the conn shutting down
		return
	default:
	}
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}
