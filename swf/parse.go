package swf

import (
	"bytes"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/swf-abc/abc"
	"github.com/wippyai/swf-abc/errors"
)

// File is a decoded container.
type File struct {
	Header Header

	// Tags holds every framed tag in stream order. A tag that could not be
	// framed is the last entry and carries the error in Err.
	Tags []TagRecord

	// BodyLength is the actual uncompressed length, including the prefix.
	BodyLength int64
}

// Parse decodes a container held in memory.
func Parse(data []byte, opts ...Option) (*File, error) {
	return ParseReader(bytes.NewReader(data), opts...)
}

// ParseReader decodes a container from r. Only header-level failures
// (unsupported signature, corrupt compression, truncated header) fail the
// whole parse; tag and module failures are recorded on their tag.
func ParseReader(r io.Reader, opts ...Option) (*File, error) {
	cfg := newConfig(opts)
	s, err := open(r, cfg)
	if err != nil {
		return nil, err
	}

	f := &File{Header: s.Header()}
	for tag, err := range s.All() {
		if err != nil {
			if errors.Is(err, errors.ErrDecompression) {
				return nil, err
			}
			cfg.Logger.Warn("tag framing failed",
				zap.Int("index", len(f.Tags)),
				zap.Int64("offset", tag.Offset),
				zap.Error(err),
			)
			f.Tags = append(f.Tags, tag)
			break
		}

		tag = Dispatch(tag)
		if tag.Err != nil {
			cfg.Logger.Warn("tag decode failed",
				zap.Int("index", len(f.Tags)),
				zap.Stringer("code", tag.Code),
				zap.Error(tag.Err),
			)
		}
		if tag.Module != nil && !cfg.SkipModules {
			decodeModule(tag.Module, len(f.Tags), cfg)
		}
		f.Tags = append(f.Tags, tag)
	}
	f.BodyLength = s.BodyLength()
	return f, nil
}

func decodeModule(mt *ModuleTag, index int, cfg Config) {
	m, err := abc.ParseWithConfig(mt.Bytecode, abc.Config{Lazy: cfg.Lazy, Logger: cfg.Logger})
	if err != nil {
		mt.Err = err
		cfg.Logger.Warn("module decode failed",
			zap.Int("tag", index),
			zap.String("name", mt.Name),
			zap.Error(err),
		)
		return
	}
	mt.ABC = m
	cfg.Logger.Debug("module decoded",
		zap.Int("tag", index),
		zap.String("name", mt.Name),
		zap.Int("methods", len(m.Methods)),
		zap.Int("classes", len(m.Instances)),
	)
}

// Modules returns the module views of all bytecode tags in stream order,
// including ones that failed to decode.
func (f *File) Modules() []*ModuleTag {
	var out []*ModuleTag
	for i := range f.Tags {
		if f.Tags[i].Module != nil {
			out = append(out, f.Tags[i].Module)
		}
	}
	return out
}

// Err combines every tag and module failure, or returns nil when the whole
// container decoded.
func (f *File) Err() error {
	var err error
	for i, tag := range f.Tags {
		if tag.Err != nil {
			err = multierr.Append(err, fmt.Errorf("tag %d (%s): %w", i, tag.Code, tag.Err))
		}
		if tag.Module != nil && tag.Module.Err != nil {
			err = multierr.Append(err, fmt.Errorf("tag %d module %q: %w", i, tag.Module.Name, tag.Module.Err))
		}
	}
	return err
}

// MethodMatch is a method found by File.FindMethods.
type MethodMatch struct {
	Tag    int // index into File.Tags
	Module *ModuleTag
	Method uint32
	Name   string

	// ParamNames is nil when HasParamNames is false.
	ParamNames    []string
	HasParamNames bool
}

// FindMethods returns the methods of every decoded module whose name
// contains substr, in stream then method-table order.
func (f *File) FindMethods(substr string) []MethodMatch {
	var out []MethodMatch
	for i := range f.Tags {
		mt := f.Tags[i].Module
		if mt == nil || mt.ABC == nil {
			continue
		}
		for _, ref := range mt.ABC.FindMethods(substr) {
			match := MethodMatch{Tag: i, Module: mt, Method: ref.Index, Name: ref.Name}
			if names, err := mt.ABC.ParamNames(ref.Index); err == nil {
				match.ParamNames = names
				match.HasParamNames = true
			}
			out = append(out, match)
		}
	}
	return out
}
