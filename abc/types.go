package abc

// Module is a decoded ABC (ActionScript Byte Code) file. Every cross
// reference is an index into one of the module's tables.
type Module struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	Methods      []MethodInfo
	Metadata     []MetadataInfo
	Instances    []InstanceInfo
	Classes      []ClassInfo
	Scripts      []ScriptInfo
	MethodBodies []MethodBody

	// bodyOf maps a method index to its position in MethodBodies.
	bodyOf map[uint32]int
}

// ConstantPool holds the seven index-addressed pools.
type ConstantPool struct {
	Ints          Table[int32]
	Uints         Table[uint32]
	Doubles       Table[float64]
	Strings       Table[string]
	Namespaces    Table[Namespace]
	NamespaceSets Table[NamespaceSet]
	Multinames    Table[Name]
}

// Namespace is a namespace_info record. Name is a string index.
type Namespace struct {
	Kind NamespaceKind
	Name uint32
}

// NamespaceSet is an ns_set_info record: a list of namespace indices.
type NamespaceSet struct {
	Namespaces []uint32
}

// Name is a multiname_info record. The concrete type is selected by the
// record's kind byte.
type Name interface {
	Kind() MultinameKind
	isName()
}

// AnyName is the multiname sentinel at index 0 ("*").
type AnyName struct{}

// QName is a qualified name: a namespace plus a name.
type QName struct {
	K         MultinameKind
	Namespace uint32
	Name      uint32
}

// RTQName has a static name; its namespace is resolved at run time.
type RTQName struct {
	K    MultinameKind
	Name uint32
}

// RTQNameL has both namespace and name resolved at run time.
type RTQNameL struct {
	K MultinameKind
}

// Multiname is a name searched across a namespace set.
type Multiname struct {
	K            MultinameKind
	Name         uint32
	NamespaceSet uint32
}

// MultinameL has a namespace set and a run-time name.
type MultinameL struct {
	K            MultinameKind
	NamespaceSet uint32
}

// TypeName is a parameterized type such as Vector.<int>. Base and Params
// are multiname indices.
type TypeName struct {
	Base   uint32
	Params []uint32
}

func (AnyName) Kind() MultinameKind      { return MultinameAny }
func (n QName) Kind() MultinameKind      { return n.K }
func (n RTQName) Kind() MultinameKind    { return n.K }
func (n RTQNameL) Kind() MultinameKind   { return n.K }
func (n Multiname) Kind() MultinameKind  { return n.K }
func (n MultinameL) Kind() MultinameKind { return n.K }
func (TypeName) Kind() MultinameKind     { return MultinameTypeName }

func (AnyName) isName()    {}
func (QName) isName()      {}
func (RTQName) isName()    {}
func (RTQNameL) isName()   {}
func (Multiname) isName()  {}
func (MultinameL) isName() {}
func (TypeName) isName()   {}

// MethodInfo is a method signature.
type MethodInfo struct {
	ParamCount uint32
	ReturnType uint32   // multiname index, 0 = any
	ParamTypes []uint32 // multiname indices
	Name       uint32   // string index
	Flags      MethodFlags

	// Options holds default values for the trailing optional parameters.
	// Nil unless Flags has MethodHasOptional.
	Options []OptionDetail

	// ParamNames holds string indices, one per parameter. Nil unless Flags
	// has MethodHasParamNames.
	ParamNames []uint32
}

// HasParamNames reports whether the method recorded parameter names.
func (m *MethodInfo) HasParamNames() bool {
	return m.ParamNames != nil
}

// OptionDetail is a default value: an index into the pool chosen by Kind.
type OptionDetail struct {
	Value uint32
	Kind  ConstantKind
}

// MetadataInfo is a metadata_info record.
type MetadataInfo struct {
	Name  uint32 // string index
	Items []MetadataItem
}

// MetadataItem is a key/value pair of string indices. A zero key marks a
// keyless item.
type MetadataItem struct {
	Key   uint32
	Value uint32
}

// InstanceInfo describes the instance side of a class.
type InstanceInfo struct {
	Name        uint32 // multiname index
	SuperName   uint32 // multiname index, 0 = none
	Flags       InstanceFlags
	ProtectedNs uint32 // namespace index, valid when Flags has InstanceProtectedNs
	Interfaces  []uint32
	Init        uint32 // method index
	Traits      []Trait
}

// ClassInfo describes the static side of a class. ClassInfo i pairs with
// InstanceInfo i.
type ClassInfo struct {
	Init   uint32 // method index
	Traits []Trait
}

// ScriptInfo is a script_info record.
type ScriptInfo struct {
	Init   uint32 // method index
	Traits []Trait
}

// MethodBody is a method_body_info record.
type MethodBody struct {
	Method         uint32
	MaxStack       uint32
	LocalCount     uint32
	InitScopeDepth uint32
	MaxScopeDepth  uint32
	Code           []byte
	Exceptions     []ExceptionInfo
	Traits         []Trait
}

// ExceptionInfo is an exception handler range within a method body.
type ExceptionInfo struct {
	From    uint32
	To      uint32
	Target  uint32
	ExcType uint32 // multiname index, 0 = any
	VarName uint32 // multiname index, 0 = none
}

// Trait is a member declaration. Data holds the kind-specific fields.
type Trait struct {
	Name     uint32 // multiname index
	Kind     TraitKind
	Attrs    TraitAttrs
	Data     TraitData
	Metadata []uint32 // metadata indices, nil unless Attrs has TraitMetadata
}

// TraitData is the kind-specific part of a trait.
type TraitData interface {
	isTraitData()
}

// SlotTrait is the data of a slot or const trait. ValueKind is meaningful
// only when Value is non-zero.
type SlotTrait struct {
	SlotID    uint32
	TypeName  uint32 // multiname index
	Value     uint32
	ValueKind ConstantKind
}

// ClassTrait binds a class to a slot.
type ClassTrait struct {
	SlotID uint32
	Class  uint32 // class index
}

// FunctionTrait binds a function to a slot.
type FunctionTrait struct {
	SlotID   uint32
	Function uint32 // method index
}

// MethodTrait is the data of a method, getter, or setter trait.
type MethodTrait struct {
	DispID uint32
	Method uint32 // method index
}

func (SlotTrait) isTraitData()     {}
func (ClassTrait) isTraitData()    {}
func (FunctionTrait) isTraitData() {}
func (MethodTrait) isTraitData()   {}
