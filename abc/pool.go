package abc

import (
	"math"

	"github.com/wippyai/swf-abc/errors"
)

func parseConstantPool(d *decoder, cp *ConstantPool) error {
	d.phase = errors.PhaseConstantPool
	defer func() { d.phase = errors.PhaseModule }()

	if err := parseIntPool(d, cp); err != nil {
		return err
	}
	if err := parseUintPool(d, cp); err != nil {
		return err
	}
	if err := parseDoublePool(d, cp); err != nil {
		return err
	}
	if err := parseStringPool(d, cp); err != nil {
		return err
	}
	if err := parseNamespacePool(d, cp); err != nil {
		return err
	}
	if err := parseNamespaceSetPool(d, cp); err != nil {
		return err
	}
	return parseMultinamePool(d, cp)
}

func parseIntPool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(1, "int")
	if err != nil {
		return err
	}
	cp.Ints = newTable[int32]("int", 0, int(n))
	for i := uint32(1); i <= n; i++ {
		v, err := d.varU32("int", idx(i))
		if err != nil {
			return err
		}
		cp.Ints.add(int32(v))
	}
	return nil
}

func parseUintPool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(1, "uint")
	if err != nil {
		return err
	}
	cp.Uints = newTable[uint32]("uint", 0, int(n))
	for i := uint32(1); i <= n; i++ {
		v, err := d.varU32("uint", idx(i))
		if err != nil {
			return err
		}
		cp.Uints.add(v)
	}
	return nil
}

func parseDoublePool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(8, "double")
	if err != nil {
		return err
	}
	cp.Doubles = newTable("double", math.NaN(), int(n))
	for i := uint32(1); i <= n; i++ {
		v, err := d.double("double", idx(i))
		if err != nil {
			return err
		}
		cp.Doubles.add(v)
	}
	return nil
}

func parseStringPool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(1, "string")
	if err != nil {
		return err
	}
	cp.Strings = newTable("string", "", int(n))
	for i := uint32(1); i <= n; i++ {
		s, err := d.str("string", idx(i))
		if err != nil {
			return err
		}
		cp.Strings.add(s)
	}
	return nil
}

func parseNamespacePool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(2, "namespace")
	if err != nil {
		return err
	}
	cp.Namespaces = newTable("namespace", Namespace{Kind: NamespaceAny}, int(n))
	for i := uint32(1); i <= n; i++ {
		off := d.r.Position()
		kind, err := d.u8("namespace", idx(i), "kind")
		if err != nil {
			return err
		}
		if !NamespaceKind(kind).valid() {
			return errors.InvalidEnum(d.phase, []string{"namespace", idx(i)}, off, kind, "namespace kind")
		}
		name, err := d.u30("namespace", idx(i), "name")
		if err != nil {
			return err
		}
		cp.Namespaces.add(Namespace{Kind: NamespaceKind(kind), Name: name})
	}
	return nil
}

func parseNamespaceSetPool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(1, "ns_set")
	if err != nil {
		return err
	}
	cp.NamespaceSets = newTable("ns_set", NamespaceSet{}, int(n))
	for i := uint32(1); i <= n; i++ {
		path := []string{"ns_set", idx(i)}
		count, err := d.count(1, path...)
		if err != nil {
			return err
		}
		set := NamespaceSet{Namespaces: make([]uint32, count)}
		for j := range set.Namespaces {
			if set.Namespaces[j], err = d.u30(sub(path, idx(j))...); err != nil {
				return err
			}
		}
		cp.NamespaceSets.add(set)
	}
	return nil
}

func parseMultinamePool(d *decoder, cp *ConstantPool) error {
	n, err := d.poolCount(1, "multiname")
	if err != nil {
		return err
	}
	cp.Multinames = newTable[Name]("multiname", AnyName{}, int(n))
	for i := uint32(1); i <= n; i++ {
		name, err := readMultiname(d, []string{"multiname", idx(i)})
		if err != nil {
			return err
		}
		cp.Multinames.add(name)
	}
	return nil
}

func readMultiname(d *decoder, path []string) (Name, error) {
	off := d.r.Position()
	b, err := d.u8(sub(path, "kind")...)
	if err != nil {
		return nil, err
	}
	kind := MultinameKind(b)

	switch kind {
	case MultinameQName, MultinameQNameA:
		ns, err := d.u30(sub(path, "ns")...)
		if err != nil {
			return nil, err
		}
		name, err := d.u30(sub(path, "name")...)
		if err != nil {
			return nil, err
		}
		return QName{K: kind, Namespace: ns, Name: name}, nil

	case MultinameRTQName, MultinameRTQNameA:
		name, err := d.u30(sub(path, "name")...)
		if err != nil {
			return nil, err
		}
		return RTQName{K: kind, Name: name}, nil

	case MultinameRTQNameL, MultinameRTQNameLA:
		return RTQNameL{K: kind}, nil

	case MultinameMultiname, MultinameMultinameA:
		name, err := d.u30(sub(path, "name")...)
		if err != nil {
			return nil, err
		}
		set, err := d.u30(sub(path, "ns_set")...)
		if err != nil {
			return nil, err
		}
		return Multiname{K: kind, Name: name, NamespaceSet: set}, nil

	case MultinameMultinameL, MultinameMultinameLA:
		set, err := d.u30(sub(path, "ns_set")...)
		if err != nil {
			return nil, err
		}
		return MultinameL{K: kind, NamespaceSet: set}, nil

	case MultinameTypeName:
		base, err := d.u30(sub(path, "base")...)
		if err != nil {
			return nil, err
		}
		count, err := d.count(1, sub(path, "params")...)
		if err != nil {
			return nil, err
		}
		tn := TypeName{Base: base, Params: make([]uint32, count)}
		for j := range tn.Params {
			if tn.Params[j], err = d.u30(sub(path, "params", idx(j))...); err != nil {
				return nil, err
			}
		}
		return tn, nil

	default:
		return nil, errors.InvalidEnum(d.phase, path, off, b, "multiname kind")
	}
}
