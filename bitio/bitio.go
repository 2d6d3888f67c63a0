// Package bitio provides bit-granular reading and writing on top of byte streams.
// Bits are packed big-endian: the first bit written or read is the most
// significant bit of the first byte.
package bitio

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// A Writer writes a stream of bits to an underlying io.Writer.
// Output is buffered; callers must call Close to flush it.
type Writer struct {
	bw    *bufio.Writer
	cur   byte
	nbits uint // number of bits in cur, always < 8
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// WriteBits writes the low n bits of v, most significant bit first.
func (w *Writer) WriteBits(n uint, v uint64) error {
	if n > 64 {
		return errors.Errorf("cannot write %d bits at once", n)
	}
	for i := n; i > 0; i-- {
		w.cur = w.cur<<1 | byte(v>>(i-1))&1
		w.nbits++
		if w.nbits == 8 {
			if err := w.bw.WriteByte(w.cur); err != nil {
				return err
			}
			w.cur, w.nbits = 0, 0
		}
	}
	return nil
}

// Close flushes all buffered bits to the underlying writer.
// A final partial byte is padded with zero bits on the low end.
func (w *Writer) Close() error {
	if w.nbits > 0 {
		if err := w.bw.WriteByte(w.cur << (8 - w.nbits)); err != nil {
			return err
		}
		w.cur, w.nbits = 0, 0
	}
	return w.bw.Flush()
}

// A Reader reads a stream of bits from an underlying io.Reader.
type Reader struct {
	r     io.Reader
	br    *bufio.Reader
	cur   byte
	nbits uint // number of unread bits in cur
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, br: bufio.NewReader(r)}
}

// ReadBits returns the next n bits of the stream, most significant bit first.
// It returns io.EOF if the stream ends before any of the n bits, and
// io.ErrUnexpectedEOF if it ends in the middle of them.
func (r *Reader) ReadBits(n uint) (uint64, error) {
	if n > 64 {
		return 0, errors.Errorf("cannot read %d bits at once", n)
	}
	var v uint64
	for i := uint(0); i < n; i++ {
		if r.nbits == 0 {
			b, err := r.br.ReadByte()
			if err == io.EOF && i > 0 {
				return 0, io.ErrUnexpectedEOF
			}
			if err != nil {
				return 0, err
			}
			r.cur, r.nbits = b, 8
		}
		v = v<<1 | uint64(r.cur>>7)
		r.cur <<= 1
		r.nbits--
	}
	return v, nil
}

// Reset rewinds the Reader to the start of the stream and discards any
// buffered bits. The underlying reader must be an io.Seeker.
func (r *Reader) Reset() error {
	s, ok := r.r.(io.Seeker)
	if !ok {
		return errors.New("underlying reader is not seekable")
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind")
	}
	r.br.Reset(r.r)
	r.cur, r.nbits = 0, 0
	return nil
}
