// Package logsink relays log output over a network connection without ever
// blocking or crashing the polling loop that produces it. Records are staged
// in a mirrored ring with the evict-oldest policy, so when the relay is down
// or slow, the newest lines win and the oldest quietly fall off.
package logsink

import (
	"io"
	"sync"

	"github.com/indigo-web/ringbuf"
)

type Config struct {
	// BufferSize caps how many bytes of not-yet-relayed output are staged.
	BufferSize int
	// ChunkSize is how many bytes a single relay write carries at most.
	ChunkSize int
}

func Default() Config {
	return Config{
		BufferSize: 8192,
		ChunkSize:  512,
	}
}

// Fill replaces zero values with defaults.
func Fill(cfg Config) Config {
	defaults := Default()

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaults.ChunkSize
	}

	return cfg
}

// Sink is an io.Writer staging everything written into a ring and draining it
// to the attached relay on Sync. Write and Sync make it a zapcore.WriteSyncer,
// so it plugs directly into a zap core.
//
// There is no global log device: a sink is constructed and passed around
// explicitly, and the relay target is whatever io.Writer gets attached.
type Sink struct {
	mu      sync.Mutex
	ring    *ringbuf.Ring[byte]
	relay   io.Writer
	scratch []byte
}

func New(cfg Config) *Sink {
	cfg = Fill(cfg)

	return &Sink{
		ring:    ringbuf.New[byte](cfg.BufferSize, false),
		scratch: make([]byte, cfg.ChunkSize),
	}
}

// Write stages p. It never blocks on the relay and never fails on overflow:
// the ring evicts the oldest staged bytes instead.
func (s *Sink) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	s.ring.PushBulk(p)
	s.mu.Unlock()

	return len(p), nil
}

// Attach sets the relay target and immediately drains whatever was staged
// while there was none. Passing nil detaches the sink.
func (s *Sink) Attach(relay io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.relay = relay

	return s.sync()
}

// Sync drains all staged output to the relay. With no relay attached it is
// a no-op: the output simply stays staged.
func (s *Sink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sync()
}

// Pending returns the number of staged, not yet relayed bytes.
func (s *Sink) Pending() int {
	return s.ring.Len()
}

func (s *Sink) sync() error {
	if s.relay == nil {
		return nil
	}

	for {
		n := s.ring.CopyTo(s.scratch, false)
		if n == 0 {
			return nil
		}

		wrote, err := s.relay.Write(s.scratch[:n])
		// consume only what the relay actually took, the rest stays staged
		s.ring.Pop(wrote)
		if err != nil {
			return err
		}
	}
}
