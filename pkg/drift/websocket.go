package drift

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Message is one reading on a websocket GPS feed. TS is the fix time in Unix
// milliseconds; zero means "now".
type Message struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	TS int64   `json:"ts,omitempty"`
}

// WebSocket is a Source fed by a remote websocket endpoint.
type WebSocket struct {
	feed   *Feed
	url    string
	maxAge time.Duration
	dialer *websocket.Dialer
	log    *logrus.Entry
	now    func() time.Time
}

// NewWebSocket prepares a websocket source for url. Readings older than
// maxAge are dropped; maxAge <= 0 uses the poller default.
func NewWebSocket(url string, maxAge time.Duration, log *logrus.Entry) *WebSocket {
	if maxAge <= 0 {
		maxAge = DefaultPollerConfig().MaxAge
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WebSocket{
		feed:   NewFeed(),
		url:    url,
		maxAge: maxAge,
		dialer: websocket.DefaultDialer,
		log:    log.WithFields(logrus.Fields{"source": "websocket", "url": url}),
		now:    time.Now,
	}
}

// Subscribe implements Source.
func (w *WebSocket) Subscribe(h Handler) func() {
	return w.feed.Subscribe(h)
}

// Run connects and forwards readings until ctx is cancelled or the
// connection fails. Malformed and stale messages are skipped.
func (w *WebSocket) Run(ctx context.Context) error {
	conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("dialing drift feed: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	w.log.Info("drift feed connected")
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if isDecodeError(err) {
				w.log.WithError(err).Debug("skipping malformed message")
				continue
			}
			return fmt.Errorf("reading drift feed: %w", err)
		}
		w.handle(msg)
	}
}

func (w *WebSocket) handle(msg Message) {
	if math.IsNaN(msg.X) || math.IsNaN(msg.Y) || math.IsInf(msg.X, 0) || math.IsInf(msg.Y, 0) {
		return
	}
	if msg.TS != 0 {
		age := w.now().Sub(time.UnixMilli(msg.TS))
		if age > w.maxAge {
			w.log.WithField("age", age).Debug("dropping stale reading")
			return
		}
	}
	off := geo.Pt(msg.X, msg.Y)
	w.log.WithField("offset", off).Trace("drift reading")
	w.feed.Push(off)
}

// isDecodeError reports whether err came from decoding a single message
// rather than from the connection itself.
func isDecodeError(err error) bool {
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	return errors.As(err, &syntax) || errors.As(err, &typ)
}
