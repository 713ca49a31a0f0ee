package drift

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/camera"
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// recorder collects offsets delivered to a handler.
type recorder struct {
	mu  sync.Mutex
	got []geo.Point
}

func (r *recorder) handle(p geo.Point) {
	r.mu.Lock()
	r.got = append(r.got, p)
	r.mu.Unlock()
}

func (r *recorder) offsets() []geo.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]geo.Point(nil), r.got...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestFeedDeliversInSubscriptionOrder(t *testing.T) {
	f := NewFeed()
	var order []int
	f.Subscribe(func(geo.Point) { order = append(order, 1) })
	f.Subscribe(func(geo.Point) { order = append(order, 2) })
	f.Subscribe(func(geo.Point) { order = append(order, 3) })

	if n := f.Push(geo.Pt(1, 1)); n != 3 {
		t.Fatalf("expected 3 deliveries, got %d", n)
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("expected order 1,2,3, got %v", order)
		}
	}
}

func TestFeedUnsubscribeStopsDelivery(t *testing.T) {
	f := NewFeed()
	var r recorder
	unsub := f.Subscribe(r.handle)
	f.Push(geo.Pt(1, 2))
	unsub()
	unsub()
	f.Push(geo.Pt(3, 4))

	got := r.offsets()
	if len(got) != 1 || got[0] != geo.Pt(1, 2) {
		t.Errorf("expected only the first offset, got %v", got)
	}
	if f.Subscribers() != 0 {
		t.Errorf("expected no subscribers, got %d", f.Subscribers())
	}
}

func TestAttachClampsIntoCamera(t *testing.T) {
	f := NewFeed()
	cam := camera.NewController(1, camera.DefaultDriftBounds())
	updates := 0
	detach := Attach(f, cam, func() { updates++ })

	f.Push(geo.Pt(500, -900))
	if d := cam.State().Drift; d != geo.Pt(100, -150) {
		t.Errorf("expected clamped drift (100,-150), got %v", d)
	}
	if updates != 1 {
		t.Errorf("expected 1 update, got %d", updates)
	}

	detach()
	f.Push(geo.Pt(5, 5))
	if d := cam.State().Drift; d != geo.Pt(100, -150) {
		t.Errorf("drift changed after detach: %v", d)
	}
	if updates != 1 {
		t.Errorf("expected no further updates, got %d", updates)
	}
}

func TestAttachIgnoresNonFiniteOffsets(t *testing.T) {
	f := NewFeed()
	cam := camera.NewController(1, camera.DefaultDriftBounds())
	updates := 0
	Attach(f, cam, func() { updates++ })

	f.Push(geo.Pt(10, 20))
	f.Push(geo.Pt(math.NaN(), 0))

	if d := cam.State().Drift; d != geo.Pt(10, 20) {
		t.Errorf("expected drift to stay at (10,20), got %v", d)
	}
	if updates != 1 {
		t.Errorf("expected 1 update, got %d", updates)
	}
}

func TestTrackLocatorReplay(t *testing.T) {
	track := []geo.Point{geo.Pt(1, 1), geo.Pt(2, 2)}
	loc := NewTrackLocator(track, false)
	ctx := context.Background()

	for i, want := range track {
		fix, err := loc.Locate(ctx)
		if err != nil {
			t.Fatalf("fix %d: %v", i, err)
		}
		if fix.Offset != want {
			t.Errorf("fix %d: expected %v, got %v", i, want, fix.Offset)
		}
	}
	if _, err := loc.Locate(ctx); !errors.Is(err, ErrNoFix) {
		t.Errorf("expected ErrNoFix after track ends, got %v", err)
	}

	looping := NewTrackLocator(track, true)
	for i := 0; i < 5; i++ {
		fix, err := looping.Locate(ctx)
		if err != nil {
			t.Fatalf("looping fix %d: %v", i, err)
		}
		if fix.Offset != track[i%2] {
			t.Errorf("looping fix %d: expected %v, got %v", i, track[i%2], fix.Offset)
		}
	}
}

func TestPollerDeliversFixes(t *testing.T) {
	loc := NewTrackLocator([]geo.Point{geo.Pt(5, 6)}, true)
	p := NewPoller(loc, PollerConfig{Interval: 5 * time.Millisecond, MaxAge: time.Second, Timeout: time.Second}, quietLogger())
	var r recorder
	p.Subscribe(r.handle)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	waitFor(t, func() bool { return len(r.offsets()) >= 3 })
	cancel()
	if err := <-errc; err != nil {
		t.Errorf("expected nil on cancellation, got %v", err)
	}
	for _, off := range r.offsets() {
		if off != geo.Pt(5, 6) {
			t.Errorf("unexpected offset %v", off)
		}
	}
}

type staleLocator struct{ age time.Duration }

func (s staleLocator) Locate(context.Context) (Fix, error) {
	return Fix{Offset: geo.Pt(1, 1), Time: time.Now().Add(-s.age)}, nil
}

func TestPollerDropsStaleFixesAndTimesOut(t *testing.T) {
	p := NewPoller(staleLocator{age: time.Minute},
		PollerConfig{Interval: 5 * time.Millisecond, MaxAge: 10 * time.Millisecond, Timeout: 40 * time.Millisecond},
		quietLogger())
	var r recorder
	p.Subscribe(r.handle)

	err := p.Run(context.Background())
	if !errors.Is(err, ErrAcquisitionTimeout) {
		t.Fatalf("expected ErrAcquisitionTimeout, got %v", err)
	}
	if got := r.offsets(); len(got) != 0 {
		t.Errorf("stale fixes should be dropped, got %v", got)
	}
}

func TestPollerStopsWhenTrackEnds(t *testing.T) {
	loc := NewTrackLocator([]geo.Point{geo.Pt(1, 0), geo.Pt(2, 0)}, false)
	p := NewPoller(loc, PollerConfig{Interval: 5 * time.Millisecond, MaxAge: time.Second, Timeout: 30 * time.Millisecond}, quietLogger())
	var r recorder
	p.Subscribe(r.handle)

	if err := p.Run(context.Background()); !errors.Is(err, ErrAcquisitionTimeout) {
		t.Fatalf("expected ErrAcquisitionTimeout, got %v", err)
	}
	got := r.offsets()
	if len(got) != 2 || got[0] != geo.Pt(1, 0) || got[1] != geo.Pt(2, 0) {
		t.Errorf("expected the two recorded offsets, got %v", got)
	}
}

func TestDefaultPollerConfig(t *testing.T) {
	cfg := DefaultPollerConfig()
	if cfg.Interval != time.Second || cfg.MaxAge != time.Second || cfg.Timeout != 5*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	p := NewPoller(NewTrackLocator(nil, false), PollerConfig{}, nil)
	if p.cfg != cfg {
		t.Errorf("zero config should take defaults, got %+v", p.cfg)
	}
}

func feedServer(t *testing.T, messages []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, m := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
		// Wait for the client to acknowledge the close.
		conn.SetReadDeadline(time.Now().Add(time.Second))
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebSocketSource(t *testing.T) {
	srv := feedServer(t, []string{
		`{"x": 12, "y": -7}`,
		`not json`,
		`{"x": 99, "y": 99, "ts": 1000}`,
		`{"x": 3.5, "y": 4}`,
	})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	ws := NewWebSocket(url, time.Second, quietLogger())
	var r recorder
	ws.Subscribe(r.handle)

	if err := ws.Run(context.Background()); err != nil {
		t.Fatalf("expected clean shutdown on normal close, got %v", err)
	}
	got := r.offsets()
	want := []geo.Point{geo.Pt(12, -7), geo.Pt(3.5, 4)}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestWebSocketDialError(t *testing.T) {
	ws := NewWebSocket("ws://127.0.0.1:1/feed", 0, quietLogger())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ws.Run(ctx); err == nil {
		t.Error("expected dial error")
	}
}

func TestUnsubscribeDuringPushSkipsLaterHandlers(t *testing.T) {
	f := NewFeed()
	entered := make(chan struct{})
	release := make(chan struct{})
	f.Subscribe(func(geo.Point) {
		close(entered)
		<-release
	})
	var r recorder
	unsub := f.Subscribe(r.handle)

	delivered := make(chan int)
	go func() { delivered <- f.Push(geo.Pt(80, 90)) }()

	<-entered
	unsub()
	close(release)

	if n := <-delivered; n != 1 {
		t.Errorf("expected 1 delivery, got %d", n)
	}
	if got := r.offsets(); len(got) != 0 {
		t.Errorf("unsubscribed handler received %v", got)
	}
}

func TestAttachDropsInFlightDriftAfterReset(t *testing.T) {
	f := NewFeed()
	cam := camera.NewController(1, camera.DefaultDriftBounds())

	entered := make(chan struct{})
	release := make(chan struct{})
	f.Subscribe(func(geo.Point) {
		close(entered)
		<-release
	})
	detach := Attach(f, cam, nil)

	done := make(chan struct{})
	go func() {
		f.Push(geo.Pt(80, 90))
		close(done)
	}()

	<-entered
	detach()
	cam.Reset(geo.Pt(10, 10))
	close(release)
	<-done

	if st := cam.State(); st.Drift != geo.Origin || st.Tracked != geo.Pt(10, 10) {
		t.Errorf("drift after detach and reset: %+v", st)
	}
}

func TestAttachBoundToEpoch(t *testing.T) {
	f := NewFeed()
	cam := camera.NewController(1, camera.DefaultDriftBounds())
	updates := 0
	Attach(f, cam, func() { updates++ })

	f.Push(geo.Pt(20, 30))
	cam.Reset(geo.Pt(0, 0))
	f.Push(geo.Pt(40, 50))

	if got := cam.State().Drift; got != geo.Origin {
		t.Errorf("drift from a stale subscription should be dropped, got %v", got)
	}
	if updates != 1 {
		t.Errorf("expected 1 update, got %d", updates)
	}
}
