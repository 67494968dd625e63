package binary

import "io"

// BitReader reads MSB-first bit fields from a byte source, as used by the
// SWF RECT record.
type BitReader struct {
	r     io.ByteReader
	cur   byte
	avail uint
}

// NewBitReader creates a BitReader on top of r.
func NewBitReader(r io.ByteReader) *BitReader {
	return &BitReader{r: r}
}

// ReadUB reads an unsigned field of n bits (n <= 32).
func (b *BitReader) ReadUB(n uint) (uint32, error) {
	var v uint32
	for i := uint(0); i < n; i++ {
		if b.avail == 0 {
			c, err := b.r.ReadByte()
			if err != nil {
				if err == io.EOF {
					return 0, ErrUnexpectedEOF
				}
				return 0, err
			}
			b.cur = c
			b.avail = 8
		}
		b.avail--
		v = v<<1 | uint32(b.cur>>b.avail)&1
	}
	return v, nil
}

// ReadSB reads a signed, sign-extended field of n bits (n <= 32).
func (b *BitReader) ReadSB(n uint) (int32, error) {
	v, err := b.ReadUB(n)
	if err != nil {
		return 0, err
	}
	if n > 0 && n < 32 && v&(1<<(n-1)) != 0 {
		v |= ^uint32(0) << n
	}
	return int32(v), nil
}

// Align discards the remaining bits of the current byte.
func (b *BitReader) Align() {
	b.avail = 0
}
