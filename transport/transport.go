// Package transport stages bytes between a connection and a polling loop.
// The producer side polls the socket and stages whatever arrived in an
// ingress ring; the consumer side takes framed units out at its own pace.
// Outbound data goes the opposite way through an egress ring. No framing is
// done here: the loop decides what a unit is.
package transport

import (
	"errors"
	"net"
	"time"

	"github.com/indigo-web/ringbuf"
)

var (
	ErrIngressFull = errors.New("transport: ingress buffer is full")
	ErrEgressFull  = errors.New("transport: egress buffer is full")
)

type Config struct {
	// ReadBuffer is how many bytes a single Poll reads from the socket at most.
	ReadBuffer int
	// IngressSize caps the staged inbound bytes. The ring rejects new data
	// when full, so nothing received is ever silently dropped: Poll simply
	// reads less until the consumer catches up.
	IngressSize int
	// EgressSize caps the staged outbound bytes.
	EgressSize int
	// Timeout bounds a single socket read. Zero disables the deadline.
	Timeout time.Duration
}

func Default() Config {
	return Config{
		ReadBuffer:  2048,
		IngressSize: 8192,
		EgressSize:  8192,
	}
}

// Fill replaces zero values with defaults.
func Fill(cfg Config) Config {
	defaults := Default()

	if cfg.ReadBuffer <= 0 {
		cfg.ReadBuffer = defaults.ReadBuffer
	}
	if cfg.IngressSize <= 0 {
		cfg.IngressSize = defaults.IngressSize
	}
	if cfg.EgressSize <= 0 {
		cfg.EgressSize = defaults.EgressSize
	}

	return cfg
}

// Conn wraps a net.Conn with ingress and egress staging rings.
type Conn struct {
	conn    net.Conn
	ingress *ringbuf.Ring[byte]
	egress  *ringbuf.Ring[byte]
	buff    []byte
	scratch []byte
	timeout time.Duration
}

func New(conn net.Conn, cfg Config) *Conn {
	cfg = Fill(cfg)

	return &Conn{
		conn:    conn,
		ingress: ringbuf.New[byte](cfg.IngressSize, true),
		egress:  ringbuf.New[byte](cfg.EgressSize, true),
		buff:    make([]byte, cfg.ReadBuffer),
		scratch: make([]byte, cfg.ReadBuffer),
		timeout: cfg.Timeout,
	}
}

// Poll reads from the socket once and stages whatever arrived, returning the
// number of bytes staged. The read is clipped to the free ingress space, so
// a slow consumer backpressures the socket instead of losing data. Timeouts
// are handled automatically.
func (c *Conn) Poll() (n int, err error) {
	free := c.ingress.Free()
	if free == 0 {
		return 0, ErrIngressFull
	}

	limit := len(c.buff)
	if free < limit {
		limit = free
	}

	if c.timeout > 0 {
		if err = c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}

	n, err = c.conn.Read(c.buff[:limit])
	if n > 0 {
		c.ingress.PushBulk(c.buff[:n])
	}

	return n, err
}

// Pending returns the number of staged inbound bytes.
func (c *Conn) Pending() int {
	return c.ingress.Len()
}

// Peek returns the staged inbound bytes as a flat slice without consuming
// them. The view is transient: it stays valid only until the next Poll, Take
// or Skip.
func (c *Conn) Peek() []byte {
	return c.ingress.Data()
}

// Take copies up to len(dst) staged inbound bytes into dst and consumes them,
// returning the number of bytes taken.
func (c *Conn) Take(dst []byte) int {
	return c.ingress.CopyTo(dst, true)
}

// Skip discards up to n staged inbound bytes, e.g. an already-parsed frame.
func (c *Conn) Skip(n int) int {
	return c.ingress.Pop(n)
}

// Queue stages outbound bytes for the next Flush. Fails when the remaining
// egress space cannot take the whole p, staging nothing at all then.
func (c *Conn) Queue(p []byte) error {
	if len(p) == 0 {
		return nil
	}

	if !c.egress.PushBulk(p) {
		return ErrEgressFull
	}

	return nil
}

// Flush writes all staged outbound bytes to the socket.
func (c *Conn) Flush() error {
	for c.egress.Len() > 0 {
		n := c.egress.CopyTo(c.scratch, false)
		wrote, err := c.conn.Write(c.scratch[:n])
		// consume only what the socket actually accepted
		c.egress.Pop(wrote)
		if err != nil {
			return err
		}
	}

	return nil
}

// Conn unwraps the underlying net.Conn.
func (c *Conn) Conn() net.Conn {
	return c.conn
}

// Remote returns the remote address of the connection.
func (c *Conn) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the underlying connection. Staged data stays accessible.
func (c *Conn) Close() error {
	return c.conn.Close()
}
