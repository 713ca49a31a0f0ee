package drift

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/sirupsen/logrus"
)

// ErrAcquisitionTimeout is returned by Poller.Run when no fresh fix was
// accepted within the configured timeout.
var ErrAcquisitionTimeout = errors.New("drift: position acquisition timed out")

// ErrNoFix is returned by a Locator that has nothing to report.
var ErrNoFix = errors.New("drift: no position fix available")

// Fix is one position reading expressed as an offset, stamped with the time
// it was taken.
type Fix struct {
	Offset geo.Point
	Time   time.Time
}

// Locator acquires a single fix. Implementations wrap whatever location
// mechanism the host provides.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// PollerConfig controls the polling cadence and staleness policy.
type PollerConfig struct {
	// Interval between Locate calls.
	Interval time.Duration `yaml:"interval" json:"interval"`
	// MaxAge is the oldest fix that is still delivered.
	MaxAge time.Duration `yaml:"max_age" json:"max_age"`
	// Timeout is how long the poller keeps trying without an accepted fix
	// before it gives up.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DefaultPollerConfig returns the reference cadence: one update a second,
// one second of staleness, five seconds to acquire.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval: time.Second,
		MaxAge:   time.Second,
		Timeout:  5 * time.Second,
	}
}

// Poller is a Source that periodically asks a Locator for a fix.
type Poller struct {
	feed *Feed
	loc  Locator
	cfg  PollerConfig
	log  *logrus.Entry
	now  func() time.Time
}

// NewPoller creates a poller. Zero config fields take their defaults; a nil
// logger uses the standard logrus logger.
func NewPoller(loc Locator, cfg PollerConfig, log *logrus.Entry) *Poller {
	def := DefaultPollerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = def.MaxAge
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Poller{
		feed: NewFeed(),
		loc:  loc,
		cfg:  cfg,
		log:  log.WithField("source", "poller"),
		now:  time.Now,
	}
}

// Subscribe implements Source.
func (p *Poller) Subscribe(h Handler) func() {
	return p.feed.Subscribe(h)
}

// Run polls until ctx is done or acquisition times out. It returns nil on
// cancellation and ErrAcquisitionTimeout when the source went quiet; in
// both cases subscribers simply stop receiving offsets.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	lastAccepted := p.now()
	for {
		if p.poll(ctx) {
			lastAccepted = p.now()
		} else if p.now().Sub(lastAccepted) > p.cfg.Timeout {
			p.log.WithField("timeout", p.cfg.Timeout).Warn("no fresh fix, stopping drift updates")
			return ErrAcquisitionTimeout
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// poll performs one acquisition and reports whether a fix was delivered.
func (p *Poller) poll(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, p.cfg.Interval)
	defer cancel()

	fix, err := p.loc.Locate(callCtx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.WithError(err).Debug("locate failed")
		}
		return false
	}
	if age := p.now().Sub(fix.Time); age > p.cfg.MaxAge {
		p.log.WithField("age", age).Debug("dropping stale fix")
		return false
	}
	p.feed.Push(fix.Offset)
	return true
}

// TrackLocator replays a recorded sequence of offsets, one per Locate call,
// each stamped with the current time.
type TrackLocator struct {
	mu    sync.Mutex
	track []geo.Point
	next  int
	loop  bool
	now   func() time.Time
}

// NewTrackLocator replays track once, or forever when loop is set.
func NewTrackLocator(track []geo.Point, loop bool) *TrackLocator {
	return &TrackLocator{
		track: append([]geo.Point(nil), track...),
		loop:  loop,
		now:   time.Now,
	}
}

// Locate returns the next recorded offset, or ErrNoFix once the track is
// exhausted.
func (l *TrackLocator) Locate(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.track) == 0 {
		return Fix{}, ErrNoFix
	}
	if l.next >= len(l.track) {
		if !l.loop {
			return Fix{}, ErrNoFix
		}
		l.next = 0
	}
	off := l.track[l.next]
	l.next++
	return Fix{Offset: off, Time: l.now()}, nil
}
