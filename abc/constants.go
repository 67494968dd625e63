package abc

// NamespaceKind is the kind byte of a namespace_info record.
type NamespaceKind byte

// Namespace kinds. NamespaceAny is the kind reported for the index-0
// sentinel and never appears in the stream.
const (
	NamespaceAny             NamespaceKind = 0x00
	NamespacePrivate         NamespaceKind = 0x05
	NamespaceNamespace       NamespaceKind = 0x08
	NamespacePackage         NamespaceKind = 0x16
	NamespacePackageInternal NamespaceKind = 0x17
	NamespaceProtected       NamespaceKind = 0x18
	NamespaceExplicit        NamespaceKind = 0x19
	NamespaceStaticProtected NamespaceKind = 0x1A
)

func (k NamespaceKind) String() string {
	switch k {
	case NamespaceAny:
		return "any"
	case NamespacePrivate:
		return "private"
	case NamespaceNamespace:
		return "namespace"
	case NamespacePackage:
		return "package"
	case NamespacePackageInternal:
		return "internal"
	case NamespaceProtected:
		return "protected"
	case NamespaceExplicit:
		return "explicit"
	case NamespaceStaticProtected:
		return "static protected"
	default:
		return "unknown"
	}
}

func (k NamespaceKind) valid() bool {
	switch k {
	case NamespacePrivate, NamespaceNamespace, NamespacePackage, NamespacePackageInternal,
		NamespaceProtected, NamespaceExplicit, NamespaceStaticProtected:
		return true
	}
	return false
}

// MultinameKind is the kind byte of a multiname_info record.
type MultinameKind byte

// Multiname kinds. The "A" variants name attributes and share the record
// shape of their plain counterparts.
const (
	MultinameAny         MultinameKind = 0x00
	MultinameQName       MultinameKind = 0x07
	MultinameQNameA      MultinameKind = 0x0D
	MultinameRTQName     MultinameKind = 0x0F
	MultinameRTQNameA    MultinameKind = 0x10
	MultinameRTQNameL    MultinameKind = 0x11
	MultinameRTQNameLA   MultinameKind = 0x12
	MultinameMultiname   MultinameKind = 0x09
	MultinameMultinameA  MultinameKind = 0x0E
	MultinameMultinameL  MultinameKind = 0x1B
	MultinameMultinameLA MultinameKind = 0x1C
	MultinameTypeName    MultinameKind = 0x1D
)

func (k MultinameKind) String() string {
	switch k {
	case MultinameAny:
		return "Any"
	case MultinameQName:
		return "QName"
	case MultinameQNameA:
		return "QNameA"
	case MultinameRTQName:
		return "RTQName"
	case MultinameRTQNameA:
		return "RTQNameA"
	case MultinameRTQNameL:
		return "RTQNameL"
	case MultinameRTQNameLA:
		return "RTQNameLA"
	case MultinameMultiname:
		return "Multiname"
	case MultinameMultinameA:
		return "MultinameA"
	case MultinameMultinameL:
		return "MultinameL"
	case MultinameMultinameLA:
		return "MultinameLA"
	case MultinameTypeName:
		return "TypeName"
	default:
		return "unknown"
	}
}

// IsAttribute reports whether k is one of the attribute ("A") kinds.
func (k MultinameKind) IsAttribute() bool {
	switch k {
	case MultinameQNameA, MultinameRTQNameA, MultinameRTQNameLA, MultinameMultinameA, MultinameMultinameLA:
		return true
	}
	return false
}

// ConstantKind selects the pool a default value or slot value lives in.
type ConstantKind byte

// Constant kinds. Namespace-valued constants reuse the namespace kind bytes.
const (
	ConstantUndefined          ConstantKind = 0x00
	ConstantUtf8               ConstantKind = 0x01
	ConstantInt                ConstantKind = 0x03
	ConstantUInt               ConstantKind = 0x04
	ConstantPrivateNs          ConstantKind = 0x05
	ConstantDouble             ConstantKind = 0x06
	ConstantNamespace          ConstantKind = 0x08
	ConstantFalse              ConstantKind = 0x0A
	ConstantTrue               ConstantKind = 0x0B
	ConstantNull               ConstantKind = 0x0C
	ConstantPackageNamespace   ConstantKind = 0x16
	ConstantPackageInternalNs  ConstantKind = 0x17
	ConstantProtectedNamespace ConstantKind = 0x18
	ConstantExplicitNamespace  ConstantKind = 0x19
	ConstantStaticProtectedNs  ConstantKind = 0x1A
)

func (k ConstantKind) String() string {
	switch k {
	case ConstantUndefined:
		return "undefined"
	case ConstantUtf8:
		return "utf8"
	case ConstantInt:
		return "int"
	case ConstantUInt:
		return "uint"
	case ConstantDouble:
		return "double"
	case ConstantFalse:
		return "false"
	case ConstantTrue:
		return "true"
	case ConstantNull:
		return "null"
	}
	if k.isNamespace() {
		return "namespace"
	}
	return "unknown"
}

func (k ConstantKind) isNamespace() bool {
	return NamespaceKind(k).valid()
}

func (k ConstantKind) valid() bool {
	switch k {
	case ConstantUndefined, ConstantUtf8, ConstantInt, ConstantUInt, ConstantDouble,
		ConstantFalse, ConstantTrue, ConstantNull:
		return true
	}
	return k.isNamespace()
}

// MethodFlags is the flags byte of a method_info record.
type MethodFlags byte

const (
	MethodNeedArguments  MethodFlags = 0x01
	MethodNeedActivation MethodFlags = 0x02
	MethodNeedRest       MethodFlags = 0x04
	MethodHasOptional    MethodFlags = 0x08
	MethodIgnoreRest     MethodFlags = 0x10
	MethodNative         MethodFlags = 0x20
	MethodSetDxns        MethodFlags = 0x40
	MethodHasParamNames  MethodFlags = 0x80
)

// Has reports whether all bits of f are set.
func (m MethodFlags) Has(f MethodFlags) bool {
	return m&f == f
}

// InstanceFlags is the flags byte of an instance_info record.
type InstanceFlags byte

const (
	InstanceSealed      InstanceFlags = 0x01
	InstanceFinal       InstanceFlags = 0x02
	InstanceInterface   InstanceFlags = 0x04
	InstanceProtectedNs InstanceFlags = 0x08
)

// Has reports whether all bits of f are set.
func (i InstanceFlags) Has(f InstanceFlags) bool {
	return i&f == f
}

// TraitKind is the low nibble of a trait's kind byte.
type TraitKind byte

const (
	TraitSlot     TraitKind = 0
	TraitMethod   TraitKind = 1
	TraitGetter   TraitKind = 2
	TraitSetter   TraitKind = 3
	TraitClass    TraitKind = 4
	TraitFunction TraitKind = 5
	TraitConst    TraitKind = 6
)

func (k TraitKind) String() string {
	switch k {
	case TraitSlot:
		return "slot"
	case TraitMethod:
		return "method"
	case TraitGetter:
		return "getter"
	case TraitSetter:
		return "setter"
	case TraitClass:
		return "class"
	case TraitFunction:
		return "function"
	case TraitConst:
		return "const"
	default:
		return "unknown"
	}
}

// TraitAttrs is the high nibble of a trait's kind byte.
type TraitAttrs byte

const (
	TraitFinal    TraitAttrs = 0x1
	TraitOverride TraitAttrs = 0x2
	TraitMetadata TraitAttrs = 0x4
)

// Has reports whether all bits of f are set.
func (a TraitAttrs) Has(f TraitAttrs) bool {
	return a&f == f
}
