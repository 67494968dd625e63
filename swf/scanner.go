package swf

import (
	"bufio"
	"bytes"
	"io"
	"iter"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/swf-abc/errors"
)

// longLength marks a tag whose length follows as a u32.
const longLength = 0x3f

// TagRecord is one framed tag. Payload holds exactly Length bytes.
type TagRecord struct {
	Code     TagCode
	Length   uint32
	LongForm bool
	Offset   int64 // offset of the tag header in the uncompressed file
	Payload  []byte

	// Module is set by Dispatch for bytecode tags.
	Module *ModuleTag

	// Err records a decode failure scoped to this tag.
	Err error
}

// Scanner reads tag records one at a time. It never seeks backward and
// cannot be rewound; call Open again to restart.
type Scanner struct {
	header Header
	r      *bufio.Reader
	log    *zap.Logger
	pos    int64 // bytes consumed, including the prefix
	index  int
	done   bool
}

// Open reads the container header from src and returns a scanner positioned
// at the first tag. Unsupported signatures fail before any tag is read.
func Open(src io.Reader, opts ...Option) (*Scanner, error) {
	return open(src, newConfig(opts))
}

func open(src io.Reader, cfg Config) (*Scanner, error) {
	s := &Scanner{log: cfg.Logger}
	if err := readPrefix(src, &s.header); err != nil {
		return nil, err
	}

	declared := uint32(0)
	if s.header.FileLength > prefixSize {
		declared = s.header.FileLength - prefixSize
	}
	body, err := Decompress(s.header.Compression(), src, declared, cfg.MaxBodySize)
	if err != nil {
		return nil, err
	}
	s.r = bufio.NewReader(body)
	s.pos = prefixSize

	cr := &countingByteReader{r: s.r}
	if err := readFrameHeader(cr, &s.header); err != nil {
		return nil, err
	}
	s.pos += cr.n

	s.log.Debug("swf header",
		zap.String("signature", string(s.header.Signature)),
		zap.Uint8("version", s.header.Version),
		zap.Uint32("file_length", s.header.FileLength),
		zap.Float64("frame_rate", s.header.FrameRateFloat()),
		zap.Uint16("frame_count", s.header.FrameCount),
	)
	return s, nil
}

// Header returns the container header.
func (s *Scanner) Header() Header {
	return s.header
}

// BodyLength returns the number of uncompressed bytes consumed so far,
// including the 8-byte prefix. After the last tag it is the actual file
// length.
func (s *Scanner) BodyLength() int64 {
	return s.pos
}

// Next returns the next tag record, or io.EOF at the end of the stream.
// A tag whose framing cannot be read ends the scan: Next returns the error
// together with whatever framing was read (code, offset), with Err set.
// Tags returned before it remain valid.
func (s *Scanner) Next() (TagRecord, error) {
	if s.done {
		return TagRecord{}, io.EOF
	}

	tag, err := s.next()
	if err != nil {
		s.done = true
		if err == io.EOF {
			s.checkLength()
			return TagRecord{}, err
		}
		tag.Err = err
		return tag, err
	}
	s.index++
	s.log.Debug("tag",
		zap.Int("index", s.index-1),
		zap.Stringer("code", tag.Code),
		zap.Uint32("length", tag.Length),
		zap.Int64("offset", tag.Offset),
	)
	return tag, nil
}

func (s *Scanner) next() (TagRecord, error) {
	start := s.pos
	path := []string{"tag", strconv.Itoa(s.index)}

	var hdr [2]byte
	n, err := io.ReadFull(s.r, hdr[:])
	s.pos += int64(n)
	if err == io.EOF {
		return TagRecord{}, io.EOF
	}
	if err != nil {
		return TagRecord{Offset: start}, s.tagErr(err, path, start, "tag header")
	}
	word := uint16(hdr[0]) | uint16(hdr[1])<<8

	tag := TagRecord{
		Code:   TagCode(word >> 6),
		Length: uint32(word & longLength),
		Offset: start,
	}
	if tag.Length == longLength {
		var ext [4]byte
		n, err := io.ReadFull(s.r, ext[:])
		s.pos += int64(n)
		if err != nil {
			return tag, s.tagErr(err, path, start, "long tag length")
		}
		tag.Length = uint32(ext[0]) | uint32(ext[1])<<8 | uint32(ext[2])<<16 | uint32(ext[3])<<24
		tag.LongForm = true
	}

	// Copy through a buffer so a bogus length cannot force a large
	// allocation before the data is actually there.
	var buf bytes.Buffer
	buf.Grow(int(min(tag.Length, 64<<10)))
	copied, err := io.CopyN(&buf, s.r, int64(tag.Length))
	s.pos += copied
	if err != nil {
		if err == io.EOF {
			return tag, errors.New(errors.PhaseTag, errors.KindTruncated).
				Path(path...).
				Offset(int(start)).
				Value(tag.Code).
				Detail("%s declares %d bytes, %d available", tag.Code, tag.Length, copied).
				Build()
		}
		return tag, s.tagErr(err, path, start, "tag payload")
	}
	tag.Payload = buf.Bytes()
	return tag, nil
}

func (s *Scanner) tagErr(err error, path []string, off int64, what string) error {
	var e *errors.Error
	if errors.As(err, &e) {
		return err
	}
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return errors.New(errors.PhaseTag, errors.KindTruncated).
			Path(path...).
			Offset(int(off)).
			Cause(err).
			Detail("truncated %s", what).
			Build()
	}
	return errors.New(errors.PhaseTag, errors.KindMalformedInput).
		Path(path...).
		Offset(int(off)).
		Cause(err).
		Detail("reading %s", what).
		Build()
}

func (s *Scanner) checkLength() {
	if s.pos != int64(s.header.FileLength) {
		s.log.Warn("declared file length does not match body",
			zap.Uint32("declared", s.header.FileLength),
			zap.Int64("actual", s.pos),
		)
	}
}

// All yields the remaining tags. Iteration stops after the first error,
// which is yielded with the partially framed tag.
func (s *Scanner) All() iter.Seq2[TagRecord, error] {
	return func(yield func(TagRecord, error) bool) {
		for {
			tag, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(tag, err) || err != nil {
				return
			}
		}
	}
}

type countingByteReader struct {
	r io.ByteReader
	n int64
}

func (c *countingByteReader) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
