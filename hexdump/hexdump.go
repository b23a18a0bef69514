package hexdump

import (
	"bytes"
	"fmt"
	"io"

	"github.com/indigo-web/utils/uf"
)

const hexdigit = "0123456789ABCDEF"

const (
	rowLen    = 16
	hexOffset = 10
	ascOffset = 61
	lineLen   = 78
)

// Dump renders data as a classic 16-bytes-per-row hex dump: a header carrying
// a severity letter, a label and the length, then rows of an address column,
// two blocks of eight hex-encoded bytes and a printable-ASCII gutter.
//
// The data slice is typically a transient ring view (ringbuf.Ring.Data), so
// it is consumed before returning and never retained.
func Dump(w io.Writer, letter byte, label string, data []byte) error {
	if _, err := fmt.Fprintf(w, "[%c] %s: @%p/%d:\n", letter, label, data, len(data)); err != nil {
		return err
	}

	line := make([]byte, lineLen+1)

	for off := 0; off < len(data); off += rowLen {
		row := data[off:]
		if len(row) > rowLen {
			row = row[:rowLen]
		}

		if _, err := w.Write(format(line, off, row)); err != nil {
			return err
		}
	}

	return nil
}

// String renders the dump into a string. Handy for feeding a logger.
func String(letter byte, label string, data []byte) string {
	buff := bytes.Buffer{}
	// bytes.Buffer never errors
	_ = Dump(&buff, letter, label, data)

	return uf.B2S(buff.Bytes())
}

// format renders a single row into line, which must be lineLen+1 long.
func format(line []byte, off int, row []byte) []byte {
	for i := range line {
		line[i] = ' '
	}

	line[2] = '|'
	line[4] = hexdigit[(off>>12)&0x0F]
	line[5] = hexdigit[(off>>8)&0x0F]
	line[6] = hexdigit[(off>>4)&0x0F]
	line[7] = hexdigit[off&0x0F]
	line[8] = ':'
	line[ascOffset-1] = '|'
	line[ascOffset+rowLen] = '|'
	line[lineLen] = '\n'

	pos := hexOffset
	for i, c := range row {
		if i == rowLen/2 {
			// visual break between the two blocks of eight
			pos++
		}

		line[pos] = hexdigit[c>>4]
		line[pos+1] = hexdigit[c&0x0F]
		pos += 3

		if c >= 32 && c < 127 {
			line[ascOffset+i] = c
		} else {
			line[ascOffset+i] = '.'
		}
	}

	return line
}
