// Package dummy carries an in-memory net.Conn for tests and examples: reads
// replay pre-scripted chunks, writes are captured.
package dummy

import (
	"io"
	"net"
	"time"
)

type Conn struct {
	chunks  [][]byte
	pointer int
	Written []byte
	closed  bool
}

func NewConn(chunks ...[]byte) *Conn {
	return &Conn{chunks: chunks}
}

// Read hands out the next scripted chunk, clipped to len(b). A chunk longer
// than b is split across consecutive reads. io.EOF follows the last chunk.
func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed || c.pointer >= len(c.chunks) {
		return 0, io.EOF
	}

	chunk := c.chunks[c.pointer]
	n = copy(b, chunk)
	if n == len(chunk) {
		c.pointer++
	} else {
		c.chunks[c.pointer] = chunk[n:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}

	c.Written = append(c.Written, b...)

	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(t time.Time) error {
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return nil
}
