package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is the slice of the remote store the probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe is the boolean online/offline detector. It remembers the last
// observation so dispatch-time checks never block on the network.
type Probe struct {
	pinger  Pinger
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.Mutex
	online bool
}

// NewProbe builds a probe. The initial state is whatever the first Check
// observes; until then the probe reports the provided assumption.
func NewProbe(pinger Pinger, timeout time.Duration, assumeOnline bool, logger *zap.Logger) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{pinger: pinger, timeout: timeout, online: assumeOnline, logger: logger}
}

// Online returns the last observed connectivity without touching the
// network.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// Check pings the remote store and records the result. It returns the new
// state plus whether this check was an offline-to-online transition, which
// is the replay trigger.
func (p *Probe) Check(ctx context.Context) (online, restored bool) {
	pingCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pinger.Ping(pingCtx)
	online = err == nil

	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	p.mu.Unlock()

	if online && !wasOnline {
		p.logger.Info("connectivity restored")
		return true, true
	}
	if !online && wasOnline {
		p.logger.Warn("connectivity lost", zap.Error(err))
	}
	return online, false
}
