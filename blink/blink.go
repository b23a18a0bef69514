// Package blink drives an on/off indicator through a repeating 16-bit
// pattern, one bit per interval, most significant bit first. The pattern
// makes simple signalling cheap: 0xF0F0 is a slow blink, 0xAAAA a flicker,
// 0x8000 a short periodic flash.
package blink

import "time"

// Pin receives the computed output level. Whatever sits behind it - a GPIO
// line, a character on a status display - is none of this package's business.
type Pin func(on bool)

type Blinker struct {
	pin      Pin
	interval time.Duration
	now      func() time.Time

	pattern uint16
	bit     int
	running bool
	last    time.Time
}

// New returns a stopped blinker stepping the pattern every interval. The
// optional clock is a test seam; it defaults to time.Now.
func New(pin Pin, interval time.Duration, clock ...func() time.Time) *Blinker {
	now := time.Now
	if len(clock) > 0 && clock[0] != nil {
		now = clock[0]
	}

	return &Blinker{
		pin:      pin,
		interval: interval,
		now:      now,
	}
}

// Start installs the pattern and drives the pin with its first bit right
// away. A running blinker restarts from the pattern's beginning.
func (b *Blinker) Start(pattern uint16) {
	b.pattern = pattern
	b.bit = 0
	b.running = true
	b.last = b.now()
	b.pin(b.current())
}

// Stop halts the pattern and forces the pin off.
func (b *Blinker) Stop() {
	if !b.running {
		return
	}

	b.running = false
	b.pin(false)
}

// Update advances the pattern if the interval has elapsed. Designed to be
// called from a polling loop at whatever rate; missed intervals don't pile
// up, the pattern just advances one step per call at most.
func (b *Blinker) Update() {
	if !b.running {
		return
	}

	now := b.now()
	if now.Sub(b.last) < b.interval {
		return
	}

	b.last = now
	b.bit = (b.bit + 1) % 16
	b.pin(b.current())
}

// Running reports whether a pattern is being played.
func (b *Blinker) Running() bool {
	return b.running
}

func (b *Blinker) current() bool {
	return b.pattern&(1<<(15-b.bit)) != 0
}
