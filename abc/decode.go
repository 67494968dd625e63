package abc

import (
	"go.uber.org/zap"

	"github.com/wippyai/swf-abc/errors"
)

// Minimum encoded sizes used to reject impossible record counts before
// allocating.
const (
	minMethodInfoSize   = 4 // param_count, return_type, name, flags
	minMetadataSize     = 2 // name, item_count
	minInstanceInfoSize = 6 // name, super_name, flags, intrf_count, iinit, trait_count
	minClassInfoSize    = 2 // cinit, trait_count
	minScriptInfoSize   = 2 // init, trait_count
	minMethodBodySize   = 8 // six u30 header fields, exception_count, trait_count
	minTraitSize        = 4 // name, kind, two u30 fields
	minExceptionSize    = 5
	minOptionSize       = 2 // val, kind
)

// Parse decodes an ABC module and validates every cross-table index.
func Parse(data []byte) (*Module, error) {
	return ParseWithConfig(data, DefaultConfig())
}

// ParseWithConfig decodes an ABC module. Unless cfg.Lazy is set, the module
// is validated eagerly and a bad index fails the whole parse.
func ParseWithConfig(data []byte, cfg Config) (*Module, error) {
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	d := newDecoder(data)
	m := &Module{}

	var err error
	if m.MinorVersion, err = d.u16("minor_version"); err != nil {
		return nil, err
	}
	if m.MajorVersion, err = d.u16("major_version"); err != nil {
		return nil, err
	}
	if err := parseConstantPool(d, &m.ConstantPool); err != nil {
		return nil, err
	}
	if err := parseMethods(d, m); err != nil {
		return nil, err
	}
	if err := parseMetadata(d, m); err != nil {
		return nil, err
	}
	if err := parseClasses(d, m); err != nil {
		return nil, err
	}
	if err := parseScripts(d, m); err != nil {
		return nil, err
	}
	if err := parseMethodBodies(d, m); err != nil {
		return nil, err
	}

	if rest := d.r.Len(); rest > 0 {
		log.Debug("trailing bytes after method bodies", zap.Int("bytes", rest))
	}

	m.indexBodies()

	if !cfg.Lazy {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}

	log.Debug("parsed abc module",
		zap.Uint16("major", m.MajorVersion),
		zap.Uint16("minor", m.MinorVersion),
		zap.Int("strings", m.ConstantPool.Strings.Count()),
		zap.Int("multinames", m.ConstantPool.Multinames.Count()),
		zap.Int("methods", len(m.Methods)),
		zap.Int("classes", len(m.Classes)),
		zap.Int("bodies", len(m.MethodBodies)),
	)

	return m, nil
}

func parseMethods(d *decoder, m *Module) error {
	n, err := d.count(minMethodInfoSize, "method_info")
	if err != nil {
		return err
	}
	m.Methods = make([]MethodInfo, n)
	for i := range m.Methods {
		if err := readMethodInfo(d, &m.Methods[i], []string{"method_info", idx(i)}); err != nil {
			return err
		}
	}
	return nil
}

func readMethodInfo(d *decoder, mi *MethodInfo, path []string) error {
	var err error
	if mi.ParamCount, err = d.count(1, sub(path, "param_count")...); err != nil {
		return err
	}
	if mi.ReturnType, err = d.u30(sub(path, "return_type")...); err != nil {
		return err
	}
	mi.ParamTypes = make([]uint32, mi.ParamCount)
	for j := range mi.ParamTypes {
		if mi.ParamTypes[j], err = d.u30(sub(path, "param_type", idx(j))...); err != nil {
			return err
		}
	}
	if mi.Name, err = d.u30(sub(path, "name")...); err != nil {
		return err
	}
	flags, err := d.u8(sub(path, "flags")...)
	if err != nil {
		return err
	}
	mi.Flags = MethodFlags(flags)

	if mi.Flags.Has(MethodHasOptional) {
		off := d.r.Position()
		count, err := d.count(minOptionSize, sub(path, "options")...)
		if err != nil {
			return err
		}
		if count > mi.ParamCount {
			return errors.Malformed(d.phase, sub(path, "options"), off,
				"option count "+idx(count)+" exceeds param count "+idx(mi.ParamCount))
		}
		mi.Options = make([]OptionDetail, count)
		for j := range mi.Options {
			opath := sub(path, "options", idx(j))
			if mi.Options[j].Value, err = d.u30(sub(opath, "val")...); err != nil {
				return err
			}
			koff := d.r.Position()
			kind, err := d.u8(sub(opath, "kind")...)
			if err != nil {
				return err
			}
			if !ConstantKind(kind).valid() {
				return errors.InvalidEnum(d.phase, opath, koff, kind, "constant kind")
			}
			mi.Options[j].Kind = ConstantKind(kind)
		}
	}

	if mi.Flags.Has(MethodHasParamNames) {
		mi.ParamNames = make([]uint32, mi.ParamCount)
		for j := range mi.ParamNames {
			if mi.ParamNames[j], err = d.u30(sub(path, "param_names", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseMetadata reads metadata_info. Items are stored as all keys followed
// by all values.
func parseMetadata(d *decoder, m *Module) error {
	n, err := d.count(minMetadataSize, "metadata_info")
	if err != nil {
		return err
	}
	m.Metadata = make([]MetadataInfo, n)
	for i := range m.Metadata {
		path := []string{"metadata_info", idx(i)}
		md := &m.Metadata[i]
		if md.Name, err = d.u30(sub(path, "name")...); err != nil {
			return err
		}
		count, err := d.count(2, sub(path, "item_count")...)
		if err != nil {
			return err
		}
		md.Items = make([]MetadataItem, count)
		for j := range md.Items {
			if md.Items[j].Key, err = d.u30(sub(path, "key", idx(j))...); err != nil {
				return err
			}
		}
		for j := range md.Items {
			if md.Items[j].Value, err = d.u30(sub(path, "value", idx(j))...); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseClasses reads class_count, then that many instance_info records,
// then the same number of class_info records.
func parseClasses(d *decoder, m *Module) error {
	n, err := d.count(minInstanceInfoSize+minClassInfoSize, "class_count")
	if err != nil {
		return err
	}
	m.Instances = make([]InstanceInfo, n)
	for i := range m.Instances {
		if err := readInstanceInfo(d, &m.Instances[i], []string{"instance_info", idx(i)}); err != nil {
			return err
		}
	}
	m.Classes = make([]ClassInfo, n)
	for i := range m.Classes {
		path := []string{"class_info", idx(i)}
		c := &m.Classes[i]
		if c.Init, err = d.u30(sub(path, "cinit")...); err != nil {
			return err
		}
		if c.Traits, err = readTraits(d, path); err != nil {
			return err
		}
	}
	return nil
}

func readInstanceInfo(d *decoder, ii *InstanceInfo, path []string) error {
	var err error
	if ii.Name, err = d.u30(sub(path, "name")...); err != nil {
		return err
	}
	if ii.SuperName, err = d.u30(sub(path, "super_name")...); err != nil {
		return err
	}
	flags, err := d.u8(sub(path, "flags")...)
	if err != nil {
		return err
	}
	ii.Flags = InstanceFlags(flags)
	if ii.Flags.Has(InstanceProtectedNs) {
		if ii.ProtectedNs, err = d.u30(sub(path, "protected_ns")...); err != nil {
			return err
		}
	}
	count, err := d.count(1, sub(path, "interfaces")...)
	if err != nil {
		return err
	}
	ii.Interfaces = make([]uint32, count)
	for j := range ii.Interfaces {
		if ii.Interfaces[j], err = d.u30(sub(path, "interfaces", idx(j))...); err != nil {
			return err
		}
	}
	if ii.Init, err = d.u30(sub(path, "iinit")...); err != nil {
		return err
	}
	ii.Traits, err = readTraits(d, path)
	return err
}

func parseScripts(d *decoder, m *Module) error {
	n, err := d.count(minScriptInfoSize, "script_info")
	if err != nil {
		return err
	}
	m.Scripts = make([]ScriptInfo, n)
	for i := range m.Scripts {
		path := []string{"script_info", idx(i)}
		s := &m.Scripts[i]
		if s.Init, err = d.u30(sub(path, "init")...); err != nil {
			return err
		}
		if s.Traits, err = readTraits(d, path); err != nil {
			return err
		}
	}
	return nil
}

func parseMethodBodies(d *decoder, m *Module) error {
	n, err := d.count(minMethodBodySize, "method_body")
	if err != nil {
		return err
	}
	m.MethodBodies = make([]MethodBody, n)
	for i := range m.MethodBodies {
		if err := readMethodBody(d, &m.MethodBodies[i], []string{"method_body", idx(i)}); err != nil {
			return err
		}
	}
	return nil
}

func readMethodBody(d *decoder, mb *MethodBody, path []string) error {
	var err error
	fields := []struct {
		dst  *uint32
		name string
	}{
		{&mb.Method, "method"},
		{&mb.MaxStack, "max_stack"},
		{&mb.LocalCount, "local_count"},
		{&mb.InitScopeDepth, "init_scope_depth"},
		{&mb.MaxScopeDepth, "max_scope_depth"},
	}
	for _, f := range fields {
		if *f.dst, err = d.u30(sub(path, f.name)...); err != nil {
			return err
		}
	}

	codeLen, err := d.u30(sub(path, "code_length")...)
	if err != nil {
		return err
	}
	if mb.Code, err = d.bytes(codeLen, sub(path, "code")...); err != nil {
		return err
	}

	count, err := d.count(minExceptionSize, sub(path, "exception")...)
	if err != nil {
		return err
	}
	mb.Exceptions = make([]ExceptionInfo, count)
	for j := range mb.Exceptions {
		epath := sub(path, "exception", idx(j))
		ex := &mb.Exceptions[j]
		for _, f := range []struct {
			dst  *uint32
			name string
		}{
			{&ex.From, "from"},
			{&ex.To, "to"},
			{&ex.Target, "target"},
			{&ex.ExcType, "exc_type"},
			{&ex.VarName, "var_name"},
		} {
			if *f.dst, err = d.u30(sub(epath, f.name)...); err != nil {
				return err
			}
		}
	}

	mb.Traits, err = readTraits(d, path)
	return err
}

func (m *Module) indexBodies() {
	m.bodyOf = make(map[uint32]int, len(m.MethodBodies))
	for i, b := range m.MethodBodies {
		if _, dup := m.bodyOf[b.Method]; !dup {
			m.bodyOf[b.Method] = i
		}
	}
}
