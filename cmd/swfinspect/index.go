package main

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/swf-abc/swf"
)

// indexVersion is bumped when the exported layout changes.
const indexVersion = 1

// methodIndex is the exported result of a search, keyed by integer CBOR
// map keys so the file stays small for large containers.
type methodIndex struct {
	Version   int          `cbor:"1,keyasint"`
	File      string       `cbor:"2,keyasint"`
	SWF       uint8        `cbor:"3,keyasint"`
	Patterns  []string     `cbor:"4,keyasint"`
	Methods   []indexEntry `cbor:"5,keyasint"`
	Constants []classEntry `cbor:"6,keyasint,omitempty"`
}

type indexEntry struct {
	Tag           int      `cbor:"1,keyasint"`
	Module        string   `cbor:"2,keyasint"`
	Method        uint32   `cbor:"3,keyasint"`
	Name          string   `cbor:"4,keyasint"`
	ParamNames    []string `cbor:"5,keyasint,omitempty"`
	HasParamNames bool     `cbor:"6,keyasint"`
	Signature     string   `cbor:"7,keyasint,omitempty"`
}

type classEntry struct {
	Module string            `cbor:"1,keyasint"`
	Class  string            `cbor:"2,keyasint"`
	Values map[string]string `cbor:"3,keyasint"`
}

var indexEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("swfinspect: failed to create CBOR enc mode: %v", err))
	}
	indexEncMode = em
}

// buildIndex collects the methods matching any pattern. A method matched by
// several patterns is listed once.
func buildIndex(name string, f *swf.File, patterns []string) *methodIndex {
	idx := &methodIndex{
		Version:  indexVersion,
		File:     name,
		SWF:      f.Header.Version,
		Patterns: patterns,
	}
	type key struct {
		tag    int
		method uint32
	}
	seen := make(map[key]bool)
	for _, p := range patterns {
		for _, m := range f.FindMethods(p) {
			k := key{m.Tag, m.Method}
			if seen[k] {
				continue
			}
			seen[k] = true
			e := indexEntry{
				Tag:           m.Tag,
				Module:        m.Module.Name,
				Method:        m.Method,
				Name:          m.Name,
				ParamNames:    m.ParamNames,
				HasParamNames: m.HasParamNames,
			}
			if sig, err := m.Module.ABC.Signature(m.Method); err == nil {
				e.Signature = sig
			}
			idx.Methods = append(idx.Methods, e)
		}
	}
	idx.Constants = collectConstants(f)
	return idx
}

func marshalIndex(idx *methodIndex) ([]byte, error) {
	return indexEncMode.Marshal(idx)
}

func unmarshalIndex(data []byte) (*methodIndex, error) {
	var idx methodIndex
	if err := cbor.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("swfinspect: unmarshal index: %w", err)
	}
	if idx.Version != indexVersion {
		return nil, fmt.Errorf("swfinspect: index version %d, want %d", idx.Version, indexVersion)
	}
	return &idx, nil
}

func writeIndex(path string, idx *methodIndex) error {
	data, err := marshalIndex(idx)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
