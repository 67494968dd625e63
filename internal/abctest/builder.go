// Package abctest builds ABC bytecode fixtures for tests.
//
// Fields hold raw table indices, so fixtures can reference out-of-range
// entries on purpose. Pools are written with the count+1 convention: an
// empty pool is written as count 0.
package abctest

import "github.com/wippyai/swf-abc/internal/binary"

// Module describes an ABC file to encode.
type Module struct {
	Minor, Major uint16

	Ints       []int32
	Uints      []uint32
	Doubles    []float64
	Strings    []string
	Namespaces []Namespace
	NsSets     [][]uint32
	Multinames []Multiname

	Methods  []Method
	Metadata []Metadata
	Classes  []Class
	Scripts  []Script
	Bodies   []Body
}

// Namespace is a namespace_info record.
type Namespace struct {
	Kind byte
	Name uint32
}

// Multiname is a multiname_info record. Fields are written as u30 values in
// order after the kind byte, so a TypeName carries base, count, params.
type Multiname struct {
	Kind   byte
	Fields []uint32
}

// QName returns a QName multiname.
func QName(ns, name uint32) Multiname {
	return Multiname{Kind: 0x07, Fields: []uint32{ns, name}}
}

// Method is a method_info record. ParamNames are written only when Flags
// has 0x80, and Options only when Flags has 0x08.
type Method struct {
	Params     []uint32
	Return     uint32
	Name       uint32
	Flags      byte
	Options    []Option
	ParamNames []uint32
}

// Option is a default-value record.
type Option struct {
	Value uint32
	Kind  byte
}

// Metadata is a metadata_info record.
type Metadata struct {
	Name  uint32
	Items [][2]uint32
}

// Class carries both the instance_info and class_info records of a class.
type Class struct {
	Name        uint32
	Super       uint32
	Flags       byte
	ProtectedNs uint32
	Interfaces  []uint32
	IInit       uint32
	ITraits     []Trait
	CInit       uint32
	CTraits     []Trait
}

// Script is a script_info record.
type Script struct {
	Init   uint32
	Traits []Trait
}

// Body is a method_body_info record.
type Body struct {
	Method         uint32
	MaxStack       uint32
	LocalCount     uint32
	InitScopeDepth uint32
	MaxScopeDepth  uint32
	Code           []byte
	Exceptions     [][5]uint32
	Traits         []Trait
}

// Trait is a traits_info record. A and B are the two u30 fields that
// follow the kind byte (slot_id/type_name, slot_id/classi, disp_id/method).
type Trait struct {
	Name     uint32
	Kind     byte
	Attrs    byte
	A, B     uint32
	Value    uint32
	VKind    byte
	Metadata []uint32
}

// Encode serializes the module.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()
	major := m.Major
	if major == 0 {
		major = 46
	}
	minor := m.Minor
	if minor == 0 && m.Major == 0 {
		minor = 16
	}
	w.WriteU16(minor).WriteU16(major)

	poolCount(w, len(m.Ints))
	for _, v := range m.Ints {
		w.WriteS32(v)
	}
	poolCount(w, len(m.Uints))
	for _, v := range m.Uints {
		w.WriteVarU32(v)
	}
	poolCount(w, len(m.Doubles))
	for _, v := range m.Doubles {
		w.WriteDouble(v)
	}
	poolCount(w, len(m.Strings))
	for _, s := range m.Strings {
		w.WriteString(s)
	}
	poolCount(w, len(m.Namespaces))
	for _, ns := range m.Namespaces {
		w.WriteU8(ns.Kind).WriteU30(ns.Name)
	}
	poolCount(w, len(m.NsSets))
	for _, set := range m.NsSets {
		writeList(w, set)
	}
	poolCount(w, len(m.Multinames))
	for _, mn := range m.Multinames {
		w.WriteU8(mn.Kind)
		for _, f := range mn.Fields {
			w.WriteU30(f)
		}
	}

	w.WriteU30(uint32(len(m.Methods)))
	for _, mi := range m.Methods {
		w.WriteU30(uint32(len(mi.Params))).WriteU30(mi.Return)
		for _, p := range mi.Params {
			w.WriteU30(p)
		}
		w.WriteU30(mi.Name).WriteU8(mi.Flags)
		if mi.Flags&0x08 != 0 {
			w.WriteU30(uint32(len(mi.Options)))
			for _, o := range mi.Options {
				w.WriteU30(o.Value).WriteU8(o.Kind)
			}
		}
		if mi.Flags&0x80 != 0 {
			for _, n := range mi.ParamNames {
				w.WriteU30(n)
			}
		}
	}

	w.WriteU30(uint32(len(m.Metadata)))
	for _, md := range m.Metadata {
		w.WriteU30(md.Name).WriteU30(uint32(len(md.Items)))
		for _, it := range md.Items {
			w.WriteU30(it[0])
		}
		for _, it := range md.Items {
			w.WriteU30(it[1])
		}
	}

	w.WriteU30(uint32(len(m.Classes)))
	for _, c := range m.Classes {
		w.WriteU30(c.Name).WriteU30(c.Super).WriteU8(c.Flags)
		if c.Flags&0x08 != 0 {
			w.WriteU30(c.ProtectedNs)
		}
		writeList(w, c.Interfaces)
		w.WriteU30(c.IInit)
		writeTraits(w, c.ITraits)
	}
	for _, c := range m.Classes {
		w.WriteU30(c.CInit)
		writeTraits(w, c.CTraits)
	}

	w.WriteU30(uint32(len(m.Scripts)))
	for _, s := range m.Scripts {
		w.WriteU30(s.Init)
		writeTraits(w, s.Traits)
	}

	w.WriteU30(uint32(len(m.Bodies)))
	for _, b := range m.Bodies {
		w.WriteU30(b.Method).
			WriteU30(b.MaxStack).
			WriteU30(b.LocalCount).
			WriteU30(b.InitScopeDepth).
			WriteU30(b.MaxScopeDepth).
			WriteU30(uint32(len(b.Code))).
			WriteBytes(b.Code)
		w.WriteU30(uint32(len(b.Exceptions)))
		for _, ex := range b.Exceptions {
			for _, f := range ex {
				w.WriteU30(f)
			}
		}
		writeTraits(w, b.Traits)
	}

	return w.Bytes()
}

func poolCount(w *binary.Writer, n int) {
	if n == 0 {
		w.WriteU30(0)
		return
	}
	w.WriteU30(uint32(n + 1))
}

func writeList(w *binary.Writer, vs []uint32) {
	w.WriteU30(uint32(len(vs)))
	for _, v := range vs {
		w.WriteU30(v)
	}
}

func writeTraits(w *binary.Writer, traits []Trait) {
	w.WriteU30(uint32(len(traits)))
	for _, t := range traits {
		w.WriteU30(t.Name).WriteU8(t.Kind | t.Attrs<<4).WriteU30(t.A).WriteU30(t.B)
		if t.Kind == 0 || t.Kind == 6 {
			w.WriteU30(t.Value)
			if t.Value != 0 {
				w.WriteU8(t.VKind)
			}
		}
		if t.Attrs&0x04 != 0 {
			writeList(w, t.Metadata)
		}
	}
}

// MethodWithParams returns a module holding one method with the given name
// and parameter names, plus an empty body for it. Strings are stored in
// order: name first, then the parameter names.
func MethodWithParams(name string, params ...string) *Module {
	m := &Module{Strings: append([]string{name}, params...)}
	mi := Method{Name: 1, Flags: 0x80}
	for i := range params {
		mi.Params = append(mi.Params, 0)
		mi.ParamNames = append(mi.ParamNames, uint32(i+2))
	}
	m.Methods = []Method{mi}
	m.Bodies = []Body{{Method: 0, MaxStack: 1, LocalCount: uint32(len(params) + 1), Code: []byte{0x47}}}
	return m
}
