package swf

import (
	"bytes"
	stdbinary "encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/ulikunitz/xz/lzma"

	"github.com/wippyai/swf-abc/errors"
)

// lzmaPrefixSize is the part of a ZWS body before the raw LZMA data: a
// 4-byte compressed length and 5 bytes of coder properties.
const lzmaPrefixSize = 4 + 5

// noSize marks an LZMA stream whose uncompressed size is not recorded.
const noSize = ^uint64(0)

// Decompress wraps body, the bytes after the 8-byte prefix, so that reads
// return the uncompressed body. declared is the uncompressed body length
// from the header (FileLength minus the prefix). It never fails a read; for
// LZMA it only decides whether bytes decoded after the input ran out belong
// to the body. For compressed bodies, reading past limit bytes fails with a
// decompression error.
func Decompress(c Compression, body io.Reader, declared uint32, limit int64) (io.Reader, error) {
	switch c {
	case CompressionNone:
		return body, nil

	case CompressionZlib:
		zr, err := zlib.NewReader(body)
		if err != nil {
			return nil, errors.Decompression("zlib header", err)
		}
		return &decompressReader{r: zr, algo: "zlib", limit: limit}, nil

	case CompressionLZMA:
		var prefix [lzmaPrefixSize]byte
		if _, err := io.ReadFull(body, prefix[:]); err != nil {
			return nil, errors.Decompression("lzma header", err)
		}
		if n := stdbinary.LittleEndian.Uint32(prefix[:4]); n > 0 {
			body = io.LimitReader(body, int64(n))
		}
		// Re-frame as a classic .lzma header: properties, dictionary size,
		// then an unknown uncompressed size.
		var hdr [13]byte
		copy(hdr[:5], prefix[4:])
		stdbinary.LittleEndian.PutUint64(hdr[5:], noSize)
		lr, err := lzma.NewReader(io.MultiReader(bytes.NewReader(hdr[:]), body))
		if err != nil {
			return nil, errors.Decompression("lzma header", err)
		}
		lb := &lzmaBody{r: lr, declared: int64(declared), buf: make([]byte, 32<<10)}
		return &decompressReader{r: lb, algo: "lzma", limit: limit}, nil
	}

	return nil, errors.UnsupportedFormat(errors.PhaseDecompress, "compression "+c.String())
}

// maxOverrun bounds what an LZMA decoder can emit after its input is
// exhausted: one match of maximal length.
const maxOverrun = 273

// lzmaBody ends an LZMA stream that may lack an end marker. Without a
// marker the decoder stops only when it runs out of input, and its last op
// may be decoded from the range coder's residue. Output past the declared
// length is therefore held back: it is released when the stream ends on its
// marker or keeps going for more than maxOverrun bytes, and dropped when the
// decoder simply runs dry.
type lzmaBody struct {
	r        io.Reader
	declared int64
	buf      []byte

	out      []byte // ready for the caller
	held     []byte // past the declared length, not yet known to be real
	emitted  int64  // bytes moved to out
	produced bool
	noMarker bool
	err      error
}

func (b *lzmaBody) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if len(b.out) > 0 {
			n := copy(p, b.out)
			b.out = b.out[n:]
			return n, nil
		}
		if b.err != nil {
			return 0, b.err
		}
		b.fill()
	}
}

func (b *lzmaBody) fill() {
	n, err := b.r.Read(b.buf)
	chunk := b.buf[:n]
	if n > 0 {
		b.produced = true
	}

	b.out = b.out[:0]
	if len(b.held) == 0 && (b.declared <= 0 || b.emitted < b.declared) {
		if b.declared > 0 {
			if room := b.declared - b.emitted; int64(len(chunk)) > room {
				b.held = append(b.held, chunk[room:]...)
				chunk = chunk[:room]
			}
		}
		b.out = append(b.out, chunk...)
		b.emitted += int64(len(chunk))
	} else {
		b.held = append(b.held, chunk...)
	}
	if len(b.held) > maxOverrun {
		b.release()
		b.declared = 0
	}

	switch {
	case err == nil:
	case err == io.ErrUnexpectedEOF && b.produced:
		// Out of input without an end marker; the decoder still drains
		// what it already decoded, then reports EOF.
		b.noMarker = true
	case err == io.EOF:
		if !b.noMarker {
			b.release()
		}
		b.held = nil
		b.err = io.EOF
	default:
		b.err = err
	}
}

func (b *lzmaBody) release() {
	b.out = append(b.out, b.held...)
	b.emitted += int64(len(b.held))
	b.held = nil
}

// decompressReader converts decoder failures into decompression errors and
// enforces the size cap.
type decompressReader struct {
	r     io.Reader
	algo  string
	limit int64
	n     int64
	err   error
}

func (d *decompressReader) Read(p []byte) (int, error) {
	if d.err != nil {
		return 0, d.err
	}
	if d.limit > 0 {
		if d.n >= d.limit {
			// Read one more byte to tell a body that ends exactly at the
			// cap from one that exceeds it.
			var extra [1]byte
			n, err := io.ReadFull(d.r, extra[:])
			switch {
			case n > 0:
				d.err = errors.New(errors.PhaseDecompress, errors.KindDecompression).
					Value(d.limit).
					Detail("%s body exceeds %d bytes", d.algo, d.limit).
					Build()
			case err == io.EOF:
				d.err = io.EOF
			default:
				d.err = errors.Decompression(d.algo+" stream", err)
			}
			return 0, d.err
		}
		if rem := d.limit - d.n; int64(len(p)) > rem {
			p = p[:rem]
		}
	}
	n, err := d.r.Read(p)
	d.n += int64(n)
	if err != nil && err != io.EOF {
		d.err = errors.Decompression(d.algo+" stream", err)
		return n, d.err
	}
	return n, err
}
