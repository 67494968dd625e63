package binary

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Writer builds little-endian SWF/ABC byte streams.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(b byte) *Writer {
	w.buf.WriteByte(b)
	return w
}

// WriteU16 writes a little-endian uint16.
func (w *Writer) WriteU16(v uint16) *Writer {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

// WriteVarU32 writes a variable-length unsigned integer.
func (w *Writer) WriteVarU32(v uint32) *Writer {
	for {
		b := byte(v & payloadMask)
		v >>= 7
		if v != 0 {
			b |= continuationBit
		}
		w.buf.WriteByte(b)
		if v == 0 {
			return w
		}
	}
}

// WriteU30 writes a u30. Values above MaxU30 are written unchanged so tests
// can produce overflowing input.
func (w *Writer) WriteU30(v uint32) *Writer {
	return w.WriteVarU32(v)
}

// WriteS32 writes a signed integer in the variable-length encoding.
func (w *Writer) WriteS32(v int32) *Writer {
	return w.WriteVarU32(uint32(v))
}

// WriteDouble writes a little-endian float64.
func (w *Writer) WriteDouble(v float64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
	return w
}

// WriteString writes a u30 length-prefixed string.
func (w *Writer) WriteString(s string) *Writer {
	w.WriteU30(uint32(len(s)))
	w.buf.WriteString(s)
	return w
}

// WriteCString writes s followed by a NUL terminator.
func (w *Writer) WriteCString(s string) *Writer {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
	return w
}

// WriteBytes writes raw bytes.
func (w *Writer) WriteBytes(p []byte) *Writer {
	w.buf.Write(p)
	return w
}

// EncodeU30 encodes v in the variable-length format.
func EncodeU30(v uint32) []byte {
	return NewWriter().WriteU30(v).Bytes()
}

// BitWriter packs MSB-first bit fields.
type BitWriter struct {
	out   []byte
	cur   byte
	nbits uint
}

// WriteUB writes the low n bits of v.
func (b *BitWriter) WriteUB(v uint32, n uint) {
	for i := n; i > 0; i-- {
		b.cur = b.cur<<1 | byte(v>>(i-1))&1
		b.nbits++
		if b.nbits == 8 {
			b.out = append(b.out, b.cur)
			b.cur, b.nbits = 0, 0
		}
	}
}

// WriteSB writes the low n bits of a signed value.
func (b *BitWriter) WriteSB(v int32, n uint) {
	b.WriteUB(uint32(v), n)
}

// Bytes flushes any partial byte (zero padded) and returns the output.
func (b *BitWriter) Bytes() []byte {
	if b.nbits > 0 {
		b.out = append(b.out, b.cur<<(8-b.nbits))
		b.cur, b.nbits = 0, 0
	}
	return b.out
}
