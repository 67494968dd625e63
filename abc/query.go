package abc

import (
	"iter"
	"strings"

	"github.com/wippyai/swf-abc/errors"
)

// ErrParamNamesUnavailable matches, via errors.Is, the error ParamNames
// returns when a method did not record parameter names. It is distinct from
// a method with zero parameters.
var ErrParamNamesUnavailable = errors.Unavailable(errors.PhaseQuery, nil, "parameter names")

// maxTypeNameDepth bounds nested TypeName resolution so that a self
// referencing record cannot recurse forever.
const maxTypeNameDepth = 16

// String resolves a string pool index. Index 0 is the empty string.
func (m *Module) String(i uint32) (string, error) {
	return m.ConstantPool.Strings.Get(i)
}

// Namespace resolves a namespace pool index.
func (m *Module) Namespace(i uint32) (Namespace, error) {
	return m.ConstantPool.Namespaces.Get(i)
}

// Name resolves a multiname pool index. Index 0 is AnyName.
func (m *Module) Name(i uint32) (Name, error) {
	return m.ConstantPool.Multinames.Get(i)
}

// Int resolves an int pool index.
func (m *Module) Int(i uint32) (int32, error) {
	return m.ConstantPool.Ints.Get(i)
}

// Uint resolves a uint pool index.
func (m *Module) Uint(i uint32) (uint32, error) {
	return m.ConstantPool.Uints.Get(i)
}

// Double resolves a double pool index. Index 0 is NaN.
func (m *Module) Double(i uint32) (float64, error) {
	return m.ConstantPool.Doubles.Get(i)
}

// QualifiedName formats a multiname as "pkg::Name", or "Name" when the
// namespace is empty. The sentinel and run-time names format as "*".
// Parameterized types format as "Vector.<int>".
func (m *Module) QualifiedName(i uint32) (string, error) {
	return m.formatName(i, true, 0)
}

// LocalName formats a multiname without its namespace.
func (m *Module) LocalName(i uint32) (string, error) {
	return m.formatName(i, false, 0)
}

func (m *Module) formatName(i uint32, qualified bool, depth int) (string, error) {
	n, err := m.Name(i)
	if err != nil {
		return "", err
	}
	switch n := n.(type) {
	case QName:
		name, err := m.String(n.Name)
		if err != nil {
			return "", err
		}
		if !qualified {
			return name, nil
		}
		ns, err := m.Namespace(n.Namespace)
		if err != nil {
			return "", err
		}
		pkg, err := m.String(ns.Name)
		if err != nil {
			return "", err
		}
		if pkg == "" {
			return name, nil
		}
		return pkg + "::" + name, nil
	case RTQName:
		return m.String(n.Name)
	case Multiname:
		return m.String(n.Name)
	case TypeName:
		if depth >= maxTypeNameDepth {
			return "", errors.Malformed(errors.PhaseQuery, []string{"multiname", idx(i)}, -1,
				"type name nesting too deep")
		}
		base, err := m.formatName(n.Base, qualified, depth+1)
		if err != nil {
			return "", err
		}
		params := make([]string, len(n.Params))
		for j, p := range n.Params {
			if params[j], err = m.formatName(p, qualified, depth+1); err != nil {
				return "", err
			}
		}
		return base + ".<" + strings.Join(params, ",") + ">", nil
	default:
		return "*", nil
	}
}

// Method returns the method_info record at index i.
func (m *Module) Method(i uint32) (*MethodInfo, error) {
	if uint64(i) >= uint64(len(m.Methods)) {
		return nil, errors.OutOfBounds(errors.PhaseQuery, []string{"method_info"}, int(i), len(m.Methods))
	}
	return &m.Methods[i], nil
}

// MethodName resolves the name of method i.
func (m *Module) MethodName(i uint32) (string, error) {
	mi, err := m.Method(i)
	if err != nil {
		return "", err
	}
	return m.String(mi.Name)
}

// ParamNames resolves the declared parameter names of method i, in order.
// It returns ErrParamNamesUnavailable when the method recorded none.
func (m *Module) ParamNames(i uint32) ([]string, error) {
	mi, err := m.Method(i)
	if err != nil {
		return nil, err
	}
	if !mi.HasParamNames() {
		return nil, errors.Unavailable(errors.PhaseQuery, []string{"method_info", idx(i), "param_names"}, "parameter names")
	}
	names := make([]string, len(mi.ParamNames))
	for j, n := range mi.ParamNames {
		if names[j], err = m.String(n); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// ParamTypes resolves the qualified parameter type names of method i.
func (m *Module) ParamTypes(i uint32) ([]string, error) {
	mi, err := m.Method(i)
	if err != nil {
		return nil, err
	}
	types := make([]string, len(mi.ParamTypes))
	for j, t := range mi.ParamTypes {
		if types[j], err = m.QualifiedName(t); err != nil {
			return nil, err
		}
	}
	return types, nil
}

// ReturnType resolves the qualified return type name of method i.
func (m *Module) ReturnType(i uint32) (string, error) {
	mi, err := m.Method(i)
	if err != nil {
		return "", err
	}
	return m.QualifiedName(mi.ReturnType)
}

// Signature formats method i as "name(a:T, b:U):R" using unqualified type
// names. Parameters without recorded names print as their type alone.
func (m *Module) Signature(i uint32) (string, error) {
	mi, err := m.Method(i)
	if err != nil {
		return "", err
	}
	name, err := m.String(mi.Name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for j, t := range mi.ParamTypes {
		if j > 0 {
			b.WriteString(", ")
		}
		typ, err := m.LocalName(t)
		if err != nil {
			return "", err
		}
		if mi.HasParamNames() {
			pn, err := m.String(mi.ParamNames[j])
			if err != nil {
				return "", err
			}
			b.WriteString(pn)
			b.WriteByte(':')
		}
		b.WriteString(typ)
	}
	b.WriteString("):")
	ret, err := m.LocalName(mi.ReturnType)
	if err != nil {
		return "", err
	}
	b.WriteString(ret)
	return b.String(), nil
}

// MethodRef identifies a method by index and resolved name.
type MethodRef struct {
	Index uint32
	Name  string
}

// FindMethods returns every method whose name contains substr, in
// method-table order. Methods whose name index does not resolve are skipped.
func (m *Module) FindMethods(substr string) []MethodRef {
	var refs []MethodRef
	for i := range m.Methods {
		name, err := m.String(m.Methods[i].Name)
		if err != nil || !strings.Contains(name, substr) {
			continue
		}
		refs = append(refs, MethodRef{Index: uint32(i), Name: name})
	}
	return refs
}

// BodyOf returns the body of method i. Native and interface methods have
// none.
func (m *Module) BodyOf(i uint32) (*MethodBody, bool) {
	bi, ok := m.bodyOf[i]
	if !ok {
		return nil, false
	}
	return &m.MethodBodies[bi], true
}

// Class pairs the instance and static sides of a class.
type Class struct {
	Instance *InstanceInfo
	Static   *ClassInfo
}

// EachClass iterates the classes in declaration order.
func (m *Module) EachClass() iter.Seq2[uint32, Class] {
	return func(yield func(uint32, Class) bool) {
		for i := range m.Instances {
			c := Class{Instance: &m.Instances[i]}
			if i < len(m.Classes) {
				c.Static = &m.Classes[i]
			}
			if !yield(uint32(i), c) {
				return
			}
		}
	}
}

// ClassName resolves the qualified name of class i.
func (m *Module) ClassName(i uint32) (string, error) {
	if uint64(i) >= uint64(len(m.Instances)) {
		return "", errors.OutOfBounds(errors.PhaseQuery, []string{"instance_info"}, int(i), len(m.Instances))
	}
	return m.QualifiedName(m.Instances[i].Name)
}

// OptionValue resolves a default value. The Go type depends on the kind:
// int32, uint32, float64, string, bool, Namespace, or nil for null and
// undefined.
func (m *Module) OptionValue(opt OptionDetail) (any, error) {
	return m.constant(opt.Kind, opt.Value)
}

func (m *Module) constant(kind ConstantKind, v uint32) (any, error) {
	switch {
	case kind == ConstantInt:
		return m.Int(v)
	case kind == ConstantUInt:
		return m.Uint(v)
	case kind == ConstantDouble:
		return m.Double(v)
	case kind == ConstantUtf8:
		return m.String(v)
	case kind == ConstantTrue:
		return true, nil
	case kind == ConstantFalse:
		return false, nil
	case kind == ConstantNull, kind == ConstantUndefined:
		return nil, nil
	case kind.isNamespace():
		return m.Namespace(v)
	}
	return nil, errors.InvalidEnum(errors.PhaseQuery, nil, -1, byte(kind), "constant kind")
}

// Constant is a resolved const trait.
type Constant struct {
	Name  string
	Value any // nil when the trait has no initial value
}

// ClassConstants resolves the static const traits of class i, such as a
// message class's protocol id.
func (m *Module) ClassConstants(i uint32) ([]Constant, error) {
	if uint64(i) >= uint64(len(m.Classes)) {
		return nil, errors.OutOfBounds(errors.PhaseQuery, []string{"class_info"}, int(i), len(m.Classes))
	}
	var out []Constant
	for _, t := range m.Classes[i].Traits {
		slot, ok := t.Data.(SlotTrait)
		if !ok || t.Kind != TraitConst {
			continue
		}
		name, err := m.LocalName(t.Name)
		if err != nil {
			return nil, err
		}
		c := Constant{Name: name}
		if slot.Value != 0 {
			if c.Value, err = m.constant(slot.ValueKind, slot.Value); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}
