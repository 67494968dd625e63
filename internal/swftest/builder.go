// Package swftest builds SWF container fixtures for tests.
package swftest

import (
	"bytes"
	stdbinary "encoding/binary"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"

	"github.com/wippyai/swf-abc/internal/binary"
)

// Tag codes used by fixtures.
const (
	CodeEnd         = 0
	CodeShowFrame   = 1
	CodeDoABCDefine = 72
	CodeDoABC       = 82
)

// Tag frames a payload, using the short form when it fits.
func Tag(code uint16, payload []byte) []byte {
	if len(payload) < 0x3f {
		return binary.NewWriter().
			WriteU16(code<<6 | uint16(len(payload))).
			WriteBytes(payload).
			Bytes()
	}
	return LongTag(code, payload)
}

// LongTag frames a payload with the u32 length form regardless of size.
func LongTag(code uint16, payload []byte) []byte {
	return binary.NewWriter().
		WriteU16(code<<6 | 0x3f).
		WriteU32(uint32(len(payload))).
		WriteBytes(payload).
		Bytes()
}

// DoABC builds a DoABC tag payload.
func DoABC(flags uint32, name string, bytecode []byte) []byte {
	return binary.NewWriter().WriteU32(flags).WriteCString(name).WriteBytes(bytecode).Bytes()
}

// Body holds the frame header that opens a container body.
type Body struct {
	NBits      uint
	XMin, XMax int32
	YMin, YMax int32
	FrameRate  uint16 // 8.8 fixed point
	FrameCount uint16
}

// DefaultBody is a 550x400 stage at 24 fps with one frame.
var DefaultBody = Body{NBits: 15, XMax: 11000, YMax: 8000, FrameRate: 24 << 8, FrameCount: 1}

// Encode writes the frame header followed by the tags.
func (b Body) Encode(tags ...[]byte) []byte {
	var bw binary.BitWriter
	bw.WriteUB(uint32(b.NBits), 5)
	for _, v := range []int32{b.XMin, b.XMax, b.YMin, b.YMax} {
		bw.WriteSB(v, b.NBits)
	}
	w := binary.NewWriter().WriteBytes(bw.Bytes()).WriteU16(b.FrameRate).WriteU16(b.FrameCount)
	for _, t := range tags {
		w.WriteBytes(t)
	}
	return w.Bytes()
}

func prefix(sig string, version byte, body []byte) *binary.Writer {
	return binary.NewWriter().
		WriteBytes([]byte(sig)).
		WriteU8(version).
		WriteU32(uint32(8 + len(body)))
}

// FWS builds an uncompressed container.
func FWS(version byte, body []byte) []byte {
	return prefix("FWS", version, body).WriteBytes(body).Bytes()
}

// CWS builds a zlib-compressed container.
func CWS(version byte, body []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(body); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return prefix("CWS", version, body).WriteBytes(buf.Bytes()).Bytes()
}

// ZWS builds an LZMA-compressed container without an end marker, as most
// encoders write them. The encoder's 13-byte header is split: its 5
// property bytes follow the compressed length, and the 8-byte size is
// dropped.
func ZWS(version byte, body []byte) []byte {
	return zws(version, body, false)
}

// ZWSWithEndMarker is ZWS with an end-of-stream marker after the data.
func ZWSWithEndMarker(version byte, body []byte) []byte {
	return zws(version, body, true)
}

func zws(version byte, body []byte, marker bool) []byte {
	var buf bytes.Buffer
	cfg := lzma.WriterConfig{SizeInHeader: true, Size: int64(len(body)), EOSMarker: marker}
	lw, err := cfg.NewWriter(&buf)
	if err != nil {
		panic(err)
	}
	if _, err := lw.Write(body); err != nil {
		panic(err)
	}
	if err := lw.Close(); err != nil {
		panic(err)
	}
	raw := buf.Bytes()
	data := raw[13:]

	var n [4]byte
	stdbinary.LittleEndian.PutUint32(n[:], uint32(len(data)))
	return prefix("ZWS", version, body).
		WriteBytes(n[:]).
		WriteBytes(raw[:5]).
		WriteBytes(data).
		Bytes()
}
