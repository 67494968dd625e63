package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnexpectedEOF is returned when a read runs past the end of the data.
	ErrUnexpectedEOF = errors.New("unexpected end of data")

	// ErrVarintTooLong is returned when a variable-length integer still has
	// its continuation bit set on the fifth byte.
	ErrVarintTooLong = errors.New("varint: more than 5 bytes")

	// ErrVarintOverflow is returned when a u30 decodes to 1<<30 or more.
	ErrVarintOverflow = errors.New("varint: value exceeds 30 bits")

	// ErrImpossibleCount is returned when a record count cannot be satisfied
	// by the bytes that remain.
	ErrImpossibleCount = errors.New("count exceeds remaining data")
)

const (
	continuationBit = 0x80
	payloadMask     = 0x7f
	maxVarintBytes  = 5

	// MaxU30 is the largest value a u30 may hold.
	MaxU30 = 1<<30 - 1
)

// Reader is a forward-only cursor over an in-memory byte slice with
// position tracking and the primitive reads used by SWF and ABC.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader over data. The slice is not copied.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// ReadByte reads a single byte and advances the position.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU8 is ReadByte under the name the format tables use.
func (r *Reader) ReadU8() (uint8, error) {
	return r.ReadByte()
}

// ReadBytes returns the next n bytes. The result aliases the underlying data.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Len() {
		return nil, ErrUnexpectedEOF
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadRemaining returns all unread bytes.
func (r *Reader) ReadRemaining() []byte {
	b := r.data[r.pos:len(r.data):len(r.data)]
	r.pos = len(r.data)
	return b
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

// ReadU32 reads a little-endian uint32 (fixed 4 bytes).
func (r *Reader) ReadU32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadS24 reads a little-endian signed 24-bit integer.
func (r *Reader) ReadS24() (int32, error) {
	buf, err := r.ReadBytes(3)
	if err != nil {
		return 0, err
	}
	v := int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2])<<16
	if v&0x800000 != 0 {
		v |= ^int32(0xffffff)
	}
	return v, nil
}

// ReadDouble reads a little-endian IEEE-754 float64.
func (r *Reader) ReadDouble() (float64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf)), nil
}

// ReadVarU32 reads a variable-length unsigned integer of at most 5 bytes.
// Bits beyond 32 in the fifth byte are discarded. It backs the int and
// uint pools only; indices and counts use ReadU30.
func (r *Reader) ReadVarU32() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&payloadMask) << shift
		if b&continuationBit == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, r.wrapError(ErrVarintTooLong)
}

// ReadU30 reads a variable-length unsigned integer limited to 30 bits.
// Unlike ReadVarU32 it inspects every payload bit of the fifth byte, so an
// encoding of 1<<32 or more cannot wrap into range.
func (r *Reader) ReadU30() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if i == maxVarintBytes-1 {
			if b&continuationBit != 0 {
				return 0, r.wrapError(ErrVarintTooLong)
			}
			// Only the low two bits fit below 1<<30.
			if b&payloadMask > 0x03 {
				return 0, r.wrapError(ErrVarintOverflow)
			}
		}
		result |= uint32(b&payloadMask) << shift
		if b&continuationBit == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, r.wrapError(ErrVarintTooLong)
}

// ReadS32 reads a variable-length integer and reinterprets it as int32.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadVarU32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadString reads a u30 byte length followed by that many bytes. The bytes
// are returned as-is; invalid UTF-8 is preserved.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU30()
	if err != nil {
		return "", err
	}
	data, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadCString reads bytes up to a NUL terminator and consumes the terminator.
func (r *Reader) ReadCString() (string, error) {
	i := bytes.IndexByte(r.data[r.pos:], 0)
	if i < 0 {
		return "", ErrUnexpectedEOF
	}
	s := string(r.data[r.pos : r.pos+i])
	r.pos += i + 1
	return s, nil
}

// CheckCount fails when count records of at least minSize bytes each cannot
// fit in the remaining data.
func (r *Reader) CheckCount(count uint32, minSize int) error {
	if minSize <= 0 {
		minSize = 1
	}
	if uint64(count)*uint64(minSize) > uint64(r.Len()) {
		return r.wrapError(ErrImpossibleCount)
	}
	return nil
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}
