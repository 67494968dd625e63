package abc

import "github.com/wippyai/swf-abc/errors"

// Validate checks every cross-table index in the module against the table it
// addresses. It returns the first violation found.
func (m *Module) Validate() error {
	if err := m.validatePool(); err != nil {
		return err
	}
	if err := m.validateMethods(); err != nil {
		return err
	}
	if err := m.validateMetadata(); err != nil {
		return err
	}
	if err := m.validateClasses(); err != nil {
		return err
	}
	if err := m.validateScripts(); err != nil {
		return err
	}
	if err := m.validateBodies(); err != nil {
		return err
	}
	return nil
}

func (m *Module) validatePool() error {
	cp := &m.ConstantPool
	for i, ns := range cp.Namespaces.All() {
		if err := cp.Strings.check(ns.Name, "namespace", idx(i), "name"); err != nil {
			return err
		}
	}
	for i, set := range cp.NamespaceSets.All() {
		for j, ns := range set.Namespaces {
			if err := cp.Namespaces.check(ns, "ns_set", idx(i), idx(j)); err != nil {
				return err
			}
		}
	}
	for i, n := range cp.Multinames.All() {
		if err := m.validateName(n, []string{"multiname", idx(i)}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateName(n Name, path []string) error {
	cp := &m.ConstantPool
	switch n := n.(type) {
	case QName:
		if err := cp.Namespaces.check(n.Namespace, sub(path, "ns")...); err != nil {
			return err
		}
		return cp.Strings.check(n.Name, sub(path, "name")...)
	case RTQName:
		return cp.Strings.check(n.Name, sub(path, "name")...)
	case Multiname:
		if err := cp.Strings.check(n.Name, sub(path, "name")...); err != nil {
			return err
		}
		return cp.NamespaceSets.check(n.NamespaceSet, sub(path, "ns_set")...)
	case MultinameL:
		return cp.NamespaceSets.check(n.NamespaceSet, sub(path, "ns_set")...)
	case TypeName:
		if err := cp.Multinames.check(n.Base, sub(path, "base")...); err != nil {
			return err
		}
		for j, p := range n.Params {
			if err := cp.Multinames.check(p, sub(path, "params", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Module) validateMethods() error {
	cp := &m.ConstantPool
	for i := range m.Methods {
		mi := &m.Methods[i]
		path := []string{"method_info", idx(i)}
		if err := cp.Multinames.check(mi.ReturnType, sub(path, "return_type")...); err != nil {
			return err
		}
		for j, t := range mi.ParamTypes {
			if err := cp.Multinames.check(t, sub(path, "param_type", idx(j))...); err != nil {
				return err
			}
		}
		if err := cp.Strings.check(mi.Name, sub(path, "name")...); err != nil {
			return err
		}
		for j, opt := range mi.Options {
			if err := m.validateConstant(opt.Kind, opt.Value, sub(path, "options", idx(j))); err != nil {
				return err
			}
		}
		for j, n := range mi.ParamNames {
			if err := cp.Strings.check(n, sub(path, "param_names", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateConstant checks a value index against the pool its kind selects.
// Kinds that carry no pool entry (true, false, null, undefined) ignore the
// index.
func (m *Module) validateConstant(kind ConstantKind, v uint32, path []string) error {
	cp := &m.ConstantPool
	switch {
	case kind == ConstantInt:
		return cp.Ints.check(v, path...)
	case kind == ConstantUInt:
		return cp.Uints.check(v, path...)
	case kind == ConstantDouble:
		return cp.Doubles.check(v, path...)
	case kind == ConstantUtf8:
		return cp.Strings.check(v, path...)
	case kind.isNamespace():
		return cp.Namespaces.check(v, path...)
	}
	return nil
}

func (m *Module) validateMetadata() error {
	cp := &m.ConstantPool
	for i, md := range m.Metadata {
		path := []string{"metadata_info", idx(i)}
		if err := cp.Strings.check(md.Name, sub(path, "name")...); err != nil {
			return err
		}
		for j, it := range md.Items {
			if err := cp.Strings.check(it.Key, sub(path, "key", idx(j))...); err != nil {
				return err
			}
			if err := cp.Strings.check(it.Value, sub(path, "value", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Module) validateClasses() error {
	cp := &m.ConstantPool
	for i := range m.Instances {
		ii := &m.Instances[i]
		path := []string{"instance_info", idx(i)}
		if err := cp.Multinames.check(ii.Name, sub(path, "name")...); err != nil {
			return err
		}
		if err := cp.Multinames.check(ii.SuperName, sub(path, "super_name")...); err != nil {
			return err
		}
		if ii.Flags.Has(InstanceProtectedNs) {
			if err := cp.Namespaces.check(ii.ProtectedNs, sub(path, "protected_ns")...); err != nil {
				return err
			}
		}
		for j, in := range ii.Interfaces {
			if err := cp.Multinames.check(in, sub(path, "interfaces", idx(j))...); err != nil {
				return err
			}
		}
		if err := m.checkMethod(ii.Init, sub(path, "iinit")); err != nil {
			return err
		}
		if err := m.validateTraits(ii.Traits, path); err != nil {
			return err
		}
	}
	for i := range m.Classes {
		c := &m.Classes[i]
		path := []string{"class_info", idx(i)}
		if err := m.checkMethod(c.Init, sub(path, "cinit")); err != nil {
			return err
		}
		if err := m.validateTraits(c.Traits, path); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateScripts() error {
	for i := range m.Scripts {
		s := &m.Scripts[i]
		path := []string{"script_info", idx(i)}
		if err := m.checkMethod(s.Init, sub(path, "init")); err != nil {
			return err
		}
		if err := m.validateTraits(s.Traits, path); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateBodies() error {
	cp := &m.ConstantPool
	seen := make(map[uint32]int, len(m.MethodBodies))
	for i := range m.MethodBodies {
		b := &m.MethodBodies[i]
		path := []string{"method_body", idx(i)}
		if err := m.checkMethod(b.Method, sub(path, "method")); err != nil {
			return err
		}
		if first, dup := seen[b.Method]; dup {
			return errors.New(errors.PhaseValidate, errors.KindMalformedInput).
				Path(sub(path, "method")...).
				Value(b.Method).
				Detail("method %d already has a body at method_body.%d", b.Method, first).
				Build()
		}
		seen[b.Method] = i

		codeLen := uint32(len(b.Code))
		for j, ex := range b.Exceptions {
			epath := sub(path, "exception", idx(j))
			if ex.From > ex.To || ex.To > codeLen || ex.Target >= codeLen {
				return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
					Path(epath...).
					Detail("handler range [%d,%d) target %d outside code of length %d",
						ex.From, ex.To, ex.Target, codeLen).
					Build()
			}
			if err := cp.Multinames.check(ex.ExcType, sub(epath, "exc_type")...); err != nil {
				return err
			}
			if err := cp.Multinames.check(ex.VarName, sub(epath, "var_name")...); err != nil {
				return err
			}
		}
		if err := m.validateTraits(b.Traits, path); err != nil {
			return err
		}
	}
	return nil
}

func (m *Module) validateTraits(traits []Trait, owner []string) error {
	cp := &m.ConstantPool
	for i := range traits {
		t := &traits[i]
		path := sub(owner, "traits", idx(i))
		if err := cp.Multinames.check(t.Name, sub(path, "name")...); err != nil {
			return err
		}
		switch data := t.Data.(type) {
		case SlotTrait:
			if err := cp.Multinames.check(data.TypeName, sub(path, "type_name")...); err != nil {
				return err
			}
			if data.Value != 0 {
				if err := m.validateConstant(data.ValueKind, data.Value, sub(path, "vindex")); err != nil {
					return err
				}
			}
		case ClassTrait:
			if err := checkIndex("class", data.Class, len(m.Classes), sub(path, "classi")); err != nil {
				return err
			}
		case FunctionTrait:
			if err := m.checkMethod(data.Function, sub(path, "function")); err != nil {
				return err
			}
		case MethodTrait:
			if err := m.checkMethod(data.Method, sub(path, "method")); err != nil {
				return err
			}
		}
		for j, md := range t.Metadata {
			if err := checkIndex("metadata", md, len(m.Metadata), sub(path, "metadata", idx(j))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Module) checkMethod(i uint32, path []string) error {
	return checkIndex("method", i, len(m.Methods), path)
}

// checkIndex bounds-checks an index into a plain (sentinel-free) table.
func checkIndex(table string, i uint32, n int, path []string) error {
	if uint64(i) < uint64(n) {
		return nil
	}
	return errors.New(errors.PhaseValidate, errors.KindOutOfBounds).
		Path(path...).
		Value(i).
		Detail("%s index %d out of bounds (length %d)", table, i, n).
		Build()
}
