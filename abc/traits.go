package abc

import "github.com/wippyai/swf-abc/errors"

// readTraits reads a trait_count followed by that many traits_info records.
func readTraits(d *decoder, owner []string) ([]Trait, error) {
	path := sub(owner, "traits")
	n, err := d.count(minTraitSize, path...)
	if err != nil {
		return nil, err
	}
	traits := make([]Trait, n)
	for i := range traits {
		if err := readTrait(d, &traits[i], sub(path, idx(i))); err != nil {
			return nil, err
		}
	}
	return traits, nil
}

func readTrait(d *decoder, t *Trait, path []string) error {
	var err error
	if t.Name, err = d.u30(sub(path, "name")...); err != nil {
		return err
	}
	off := d.r.Position()
	b, err := d.u8(sub(path, "kind")...)
	if err != nil {
		return err
	}
	t.Kind = TraitKind(b & 0x0f)
	t.Attrs = TraitAttrs(b >> 4)

	switch t.Kind {
	case TraitSlot, TraitConst:
		var s SlotTrait
		if s.SlotID, err = d.u30(sub(path, "slot_id")...); err != nil {
			return err
		}
		if s.TypeName, err = d.u30(sub(path, "type_name")...); err != nil {
			return err
		}
		if s.Value, err = d.u30(sub(path, "vindex")...); err != nil {
			return err
		}
		if s.Value != 0 {
			koff := d.r.Position()
			kind, err := d.u8(sub(path, "vkind")...)
			if err != nil {
				return err
			}
			if !ConstantKind(kind).valid() {
				return errors.InvalidEnum(d.phase, sub(path, "vkind"), koff, kind, "constant kind")
			}
			s.ValueKind = ConstantKind(kind)
		}
		t.Data = s

	case TraitClass:
		var c ClassTrait
		if c.SlotID, err = d.u30(sub(path, "slot_id")...); err != nil {
			return err
		}
		if c.Class, err = d.u30(sub(path, "classi")...); err != nil {
			return err
		}
		t.Data = c

	case TraitFunction:
		var f FunctionTrait
		if f.SlotID, err = d.u30(sub(path, "slot_id")...); err != nil {
			return err
		}
		if f.Function, err = d.u30(sub(path, "function")...); err != nil {
			return err
		}
		t.Data = f

	case TraitMethod, TraitGetter, TraitSetter:
		var mt MethodTrait
		if mt.DispID, err = d.u30(sub(path, "disp_id")...); err != nil {
			return err
		}
		if mt.Method, err = d.u30(sub(path, "method")...); err != nil {
			return err
		}
		t.Data = mt

	default:
		return errors.New(d.phase, errors.KindInvalidEnum).
			Path(path...).
			Offset(off).
			Value(b).
			Detail("unknown trait kind %d", b&0x0f).
			Build()
	}

	if t.Attrs.Has(TraitMetadata) {
		count, err := d.count(1, sub(path, "metadata")...)
		if err != nil {
			return err
		}
		t.Metadata = make([]uint32, count)
		for j := range t.Metadata {
			if t.Metadata[j], err = d.u30(sub(path, "metadata", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}
