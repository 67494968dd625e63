package abc

import (
	stderrors "errors"
	"strconv"

	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/binary"
)

// decoder wraps the binary reader and turns primitive read failures into
// structured errors carrying the table path and byte offset.
type decoder struct {
	r     *binary.Reader
	phase errors.Phase
}

func newDecoder(data []byte) *decoder {
	return &decoder{r: binary.NewReader(data), phase: errors.PhaseModule}
}

func (d *decoder) wrap(err error, path []string, off int) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return err
	}
	switch {
	case stderrors.Is(err, binary.ErrUnexpectedEOF):
		return errors.Truncated(d.phase, path, off, err)
	case stderrors.Is(err, binary.ErrVarintTooLong), stderrors.Is(err, binary.ErrVarintOverflow):
		return errors.Overflow(d.phase, path, off, "u30", err)
	case stderrors.Is(err, binary.ErrImpossibleCount):
		return errors.New(d.phase, errors.KindMalformedInput).
			Path(path...).
			Offset(off).
			Cause(err).
			Detail("record count cannot fit in %d remaining bytes", d.r.Len()).
			Build()
	default:
		return errors.New(d.phase, errors.KindMalformedInput).Path(path...).Offset(off).Cause(err).Build()
	}
}

func (d *decoder) u8(path ...string) (byte, error) {
	off := d.r.Position()
	v, err := d.r.ReadU8()
	if err != nil {
		return 0, d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) u16(path ...string) (uint16, error) {
	off := d.r.Position()
	v, err := d.r.ReadU16()
	if err != nil {
		return 0, d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) u30(path ...string) (uint32, error) {
	off := d.r.Position()
	v, err := d.r.ReadU30()
	if err != nil {
		return 0, d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) varU32(path ...string) (uint32, error) {
	off := d.r.Position()
	v, err := d.r.ReadVarU32()
	if err != nil {
		return 0, d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) double(path ...string) (float64, error) {
	off := d.r.Position()
	v, err := d.r.ReadDouble()
	if err != nil {
		return 0, d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) str(path ...string) (string, error) {
	off := d.r.Position()
	v, err := d.r.ReadString()
	if err != nil {
		return "", d.wrap(err, path, off)
	}
	return v, nil
}

func (d *decoder) bytes(n uint32, path ...string) ([]byte, error) {
	off := d.r.Position()
	v, err := d.r.ReadBytes(int(n))
	if err != nil {
		return nil, d.wrap(err, path, off)
	}
	return v, nil
}

// count reads a u30 record count and rejects it when count records of at
// least minSize bytes cannot fit in what is left.
func (d *decoder) count(minSize int, path ...string) (uint32, error) {
	off := d.r.Position()
	n, err := d.u30(path...)
	if err != nil {
		return 0, err
	}
	if err := d.r.CheckCount(n, minSize); err != nil {
		return 0, d.wrap(err, path, off)
	}
	return n, nil
}

// poolCount reads a constant-pool count. The stored value includes the
// implicit index-0 entry, so count c yields c-1 records (none for 0 or 1).
func (d *decoder) poolCount(minSize int, path ...string) (uint32, error) {
	off := d.r.Position()
	c, err := d.u30(path...)
	if err != nil {
		return 0, err
	}
	if c == 0 {
		return 0, nil
	}
	if err := d.r.CheckCount(c-1, minSize); err != nil {
		return 0, d.wrap(err, path, off)
	}
	return c - 1, nil
}

func idx[T ~int | ~uint32](i T) string {
	return strconv.Itoa(int(i))
}

func sub(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	out = append(out, path...)
	return append(out, elems...)
}
