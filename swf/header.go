package swf

import (
	stdbinary "encoding/binary"
	"io"

	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/binary"
)

// prefixSize is the uncompressed part of every container: signature,
// version and file length.
const prefixSize = 8

// Header is the fixed container header.
type Header struct {
	Signature  Signature
	Version    uint8
	FileLength uint32 // declared uncompressed length, including the prefix
	FrameSize  Rect
	FrameRate  uint16 // 8.8 fixed point
	FrameCount uint16
}

// Compression returns the body compression selected by the signature.
func (h Header) Compression() Compression {
	c, _ := h.Signature.Compression()
	return c
}

// FrameRateFloat converts the 8.8 fixed-point frame rate.
func (h Header) FrameRateFloat() float64 {
	return float64(h.FrameRate) / 256
}

// Rect is a RECT record in twips.
type Rect struct {
	NBits uint8
	XMin  int32
	XMax  int32
	YMin  int32
	YMax  int32
}

// Width returns the rectangle width in pixels.
func (r Rect) Width() float64 {
	return float64(r.XMax-r.XMin) / 20
}

// Height returns the rectangle height in pixels.
func (r Rect) Height() float64 {
	return float64(r.YMax-r.YMin) / 20
}

func readPrefix(r io.Reader, h *Header) error {
	var buf [prefixSize]byte
	n, err := io.ReadFull(r, buf[:])
	if n >= 3 {
		h.Signature = Signature(buf[:3])
		if _, ok := h.Signature.Compression(); !ok {
			return errors.New(errors.PhaseHeader, errors.KindUnsupportedFormat).
				Offset(0).
				Value(string(buf[:3])).
				Detail("unknown signature %q", buf[:3]).
				Build()
		}
	}
	if err != nil {
		return errors.Truncated(errors.PhaseHeader, []string{"prefix"}, n, err)
	}
	h.Version = buf[3]
	h.FileLength = stdbinary.LittleEndian.Uint32(buf[4:])
	return nil
}

// readFrameHeader reads the RECT, frame rate and frame count that open the
// (decompressed) body.
func readFrameHeader(r io.ByteReader, h *Header) error {
	br := binary.NewBitReader(r)
	nbits, err := br.ReadUB(5)
	if err != nil {
		return headerErr("frame_size", err)
	}
	rect := Rect{NBits: uint8(nbits)}
	for _, dst := range []*int32{&rect.XMin, &rect.XMax, &rect.YMin, &rect.YMax} {
		if *dst, err = br.ReadSB(uint(nbits)); err != nil {
			return headerErr("frame_size", err)
		}
	}
	br.Align()
	h.FrameSize = rect

	var tail [4]byte
	for i := range tail {
		if tail[i], err = r.ReadByte(); err != nil {
			return headerErr("frame_rate", err)
		}
	}
	h.FrameRate = stdbinary.LittleEndian.Uint16(tail[0:])
	h.FrameCount = stdbinary.LittleEndian.Uint16(tail[2:])
	return nil
}

func headerErr(field string, err error) error {
	var e *errors.Error
	if errors.As(err, &e) {
		return err
	}
	return errors.Truncated(errors.PhaseHeader, []string{field}, -1, err)
}
