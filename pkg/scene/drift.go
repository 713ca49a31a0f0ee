package scene

import (
	"context"

	"github.com/ChicagoDave/ridemap/pkg/drift"
	"github.com/ChicagoDave/ridemap/pkg/spec"
	"github.com/sirupsen/logrus"
)

// Runner is a drift source that produces offsets only while Run is active.
type Runner interface {
	drift.Source
	Run(ctx context.Context) error
}

// ExternalDrift builds the out-of-process drift source named in scene.yaml:
// a replayed track or a websocket feed. It returns nil for push and none,
// where offsets arrive in-process.
func (sc *Scene) ExternalDrift(log *logrus.Entry) Runner {
	if log == nil {
		log = sc.log
	}
	d := sc.Spec.Drift
	switch d.Source {
	case spec.DriftTrack:
		return drift.NewPoller(drift.NewTrackLocator(d.Track, d.Loop), drift.PollerConfig{
			Interval: d.Interval,
			MaxAge:   d.MaxAge,
			Timeout:  d.Timeout,
		}, log)
	case spec.DriftWebSocket:
		return drift.NewWebSocket(d.URL, d.MaxAge, log)
	default:
		return nil
	}
}
