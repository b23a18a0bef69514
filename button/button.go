// Package button turns raw contact levels into debounced click, double-click
// and hold events. It is driven by a polling loop calling Update with the
// current level; detected events queue up in a small ring until the loop gets
// around to consuming them.
package button

import (
	"time"

	"github.com/indigo-web/ringbuf"
)

type Event uint8

const (
	None Event = iota
	Click
	DoubleClick
	Hold
)

func (e Event) String() string {
	switch e {
	case Click:
		return "click"
	case DoubleClick:
		return "double click"
	case Hold:
		return "hold"
	default:
		return "none"
	}
}

type Config struct {
	// Debounce is how long a raw level must stay stable to be accepted.
	Debounce time.Duration
	// DoubleClickGap is the longest pause between two clicks still forming
	// a double click.
	DoubleClickGap time.Duration
	// HoldThreshold is how long a press must last to become a hold.
	HoldThreshold time.Duration
	// QueueSize caps the unconsumed events. The oldest are evicted.
	QueueSize int
	// Now is the time source. Injected so tests can drive the detector
	// deterministically; defaults to time.Now.
	Now func() time.Time
}

func Default() Config {
	return Config{
		Debounce:       20 * time.Millisecond,
		DoubleClickGap: 250 * time.Millisecond,
		HoldThreshold:  800 * time.Millisecond,
		QueueSize:      4,
		Now:            time.Now,
	}
}

// Fill replaces zero values with defaults.
func Fill(cfg Config) Config {
	defaults := Default()

	if cfg.Debounce <= 0 {
		cfg.Debounce = defaults.Debounce
	}
	if cfg.DoubleClickGap <= 0 {
		cfg.DoubleClickGap = defaults.DoubleClickGap
	}
	if cfg.HoldThreshold <= 0 {
		cfg.HoldThreshold = defaults.HoldThreshold
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.Now == nil {
		cfg.Now = defaults.Now
	}

	return cfg
}

type Button struct {
	cfg   Config
	queue *ringbuf.Ring[Event]

	level      bool // debounced level, true = pressed
	raw        bool
	rawSince   time.Time
	pressedAt  time.Time
	releasedAt time.Time
	clicks     int
	holdFired  bool
}

func New(cfg Config) *Button {
	cfg = Fill(cfg)

	return &Button{
		cfg:   cfg,
		queue: ringbuf.New[Event](cfg.QueueSize, false),
	}
}

// Update feeds the current raw contact level and advances the state machine,
// returning the number of queued, not yet consumed events.
func (b *Button) Update(pressed bool) int {
	now := b.cfg.Now()

	if pressed != b.raw {
		b.raw = pressed
		b.rawSince = now
	}

	if b.raw != b.level && now.Sub(b.rawSince) >= b.cfg.Debounce {
		b.level = b.raw

		if b.level {
			b.pressedAt = now
			b.holdFired = false
		} else if !b.holdFired && now.Sub(b.pressedAt) < b.cfg.HoldThreshold {
			b.clicks++
			b.releasedAt = now
		}
	}

	switch {
	case b.level && !b.holdFired && now.Sub(b.pressedAt) >= b.cfg.HoldThreshold:
		// a hold swallows any click it may have started as
		b.holdFired = true
		b.clicks = 0
		b.queue.Push(Hold)
	case b.clicks >= 2:
		b.clicks = 0
		b.queue.Push(DoubleClick)
	case b.clicks == 1 && !b.level && now.Sub(b.releasedAt) >= b.cfg.DoubleClickGap:
		// no second click is coming anymore
		b.clicks = 0
		b.queue.Push(Click)
	}

	return b.queue.Len()
}

// Next consumes the oldest queued event, or returns None if there is nothing.
func (b *Button) Next() Event {
	e := b.queue.At(0)
	b.queue.Pop(1)

	return e
}

// Queued returns the number of unconsumed events.
func (b *Button) Queued() int {
	return b.queue.Len()
}
