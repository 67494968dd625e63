package abc_test

import (
	"reflect"
	"testing"

	"github.com/wippyai/swf-abc/abc"
	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/abctest"
)

// messageModule models a network message class with a static protocolId
// constant, a typed deserializer and a default parameter.
func messageModule() *abctest.Module {
	return &abctest.Module{
		Ints: []int32{6825},
		Strings: []string{
			"com.ankamagames.dofus.network.messages", // 1
			"MapInfoMessage",                         // 2
			"protocolId",                             // 3
			"deserializeAs_MapInfoMessage",           // 4
			"input",                                  // 5
			"offset",                                 // 6
			"flash.utils",                            // 7
			"IDataInput",                             // 8
			"int",                                    // 9
			"void",                                   // 10
			"",                                       // 11
			"Event",                                  // 12
		},
		Namespaces: []abctest.Namespace{
			{Kind: 0x16, Name: 1},  // 1
			{Kind: 0x16, Name: 7},  // 2
			{Kind: 0x16, Name: 11}, // 3
			{Kind: 0x18, Name: 2},  // 4 protected
		},
		Multinames: []abctest.Multiname{
			abctest.QName(1, 2),  // 1 MapInfoMessage
			abctest.QName(3, 3),  // 2 protocolId
			abctest.QName(2, 8),  // 3 flash.utils::IDataInput
			abctest.QName(3, 9),  // 4 int
			abctest.QName(3, 10), // 5 void
			abctest.QName(3, 4),  // 6 deserializeAs_MapInfoMessage
		},
		Methods: []abctest.Method{
			{}, // 0 iinit
			{}, // 1 cinit
			{ // 2
				Name:       4,
				Params:     []uint32{3, 4},
				Return:     5,
				Flags:      0x80 | 0x08,
				Options:    []abctest.Option{{Value: 1, Kind: 0x03}},
				ParamNames: []uint32{5, 6},
			},
			{}, // 3 script init
		},
		Metadata: []abctest.Metadata{{Name: 12, Items: [][2]uint32{{0, 2}}}},
		Classes: []abctest.Class{{
			Name:        1,
			Flags:       0x01 | 0x08,
			ProtectedNs: 4,
			IInit:       0,
			ITraits: []abctest.Trait{
				{Name: 6, Kind: 1, Attrs: 0x1 | 0x4, A: 1, B: 2, Metadata: []uint32{0}},
			},
			CInit: 1,
			CTraits: []abctest.Trait{
				{Name: 2, Kind: 6, A: 1, B: 4, Value: 1, VKind: 0x03},
			},
		}},
		Scripts: []abctest.Script{{Init: 3, Traits: []abctest.Trait{{Name: 1, Kind: 4, A: 1, B: 0}}}},
		Bodies: []abctest.Body{
			{Method: 2, MaxStack: 3, LocalCount: 3, InitScopeDepth: 4, MaxScopeDepth: 5, Code: []byte{0xd0, 0x30, 0x47}},
			{Method: 0, Code: []byte{0x47}},
		},
	}
}

func TestQueryMessageModule(t *testing.T) {
	mod := mustParse(t, messageModule())

	refs := mod.FindMethods("deserializeAs_")
	if len(refs) != 1 || refs[0].Index != 2 {
		t.Fatalf("FindMethods = %+v", refs)
	}

	sig, err := mod.Signature(2)
	if err != nil {
		t.Fatalf("Signature: %v", err)
	}
	if want := "deserializeAs_MapInfoMessage(input:IDataInput, offset:int):void"; sig != want {
		t.Errorf("Signature = %q, want %q", sig, want)
	}

	types, err := mod.ParamTypes(2)
	if err != nil {
		t.Fatalf("ParamTypes: %v", err)
	}
	if want := []string{"flash.utils::IDataInput", "int"}; !reflect.DeepEqual(types, want) {
		t.Errorf("ParamTypes = %v, want %v", types, want)
	}
	if ret, _ := mod.ReturnType(2); ret != "void" {
		t.Errorf("ReturnType = %q", ret)
	}

	opt := mod.Methods[2].Options[0]
	if v, err := mod.OptionValue(opt); err != nil || v != int32(6825) {
		t.Errorf("OptionValue = %v (%T), %v", v, v, err)
	}
}

func TestQueryClasses(t *testing.T) {
	mod := mustParse(t, messageModule())

	name, err := mod.ClassName(0)
	if err != nil {
		t.Fatalf("ClassName: %v", err)
	}
	if name != "com.ankamagames.dofus.network.messages::MapInfoMessage" {
		t.Errorf("ClassName = %q", name)
	}
	if _, err := mod.ClassName(1); !errors.Is(err, errors.ErrMalformedInput) {
		t.Errorf("ClassName(1) error = %v", err)
	}

	consts, err := mod.ClassConstants(0)
	if err != nil {
		t.Fatalf("ClassConstants: %v", err)
	}
	if want := []abc.Constant{{Name: "protocolId", Value: int32(6825)}}; !reflect.DeepEqual(consts, want) {
		t.Errorf("ClassConstants = %+v, want %+v", consts, want)
	}

	var n int
	for i, c := range mod.EachClass() {
		n++
		if i != 0 || c.Instance == nil || c.Static == nil {
			t.Errorf("EachClass yielded %d %+v", i, c)
			continue
		}
		if !c.Instance.Flags.Has(abc.InstanceSealed | abc.InstanceProtectedNs) {
			t.Errorf("instance flags = %#x", c.Instance.Flags)
		}
		if c.Instance.ProtectedNs != 4 {
			t.Errorf("ProtectedNs = %d", c.Instance.ProtectedNs)
		}
		if c.Static.Init != 1 {
			t.Errorf("cinit = %d", c.Static.Init)
		}
	}
	if n != 1 {
		t.Errorf("EachClass yielded %d classes", n)
	}
}

func TestQueryTraits(t *testing.T) {
	mod := mustParse(t, messageModule())

	it := mod.Instances[0].Traits[0]
	if it.Kind != abc.TraitMethod {
		t.Errorf("kind = %s", it.Kind)
	}
	if !it.Attrs.Has(abc.TraitFinal) || it.Attrs.Has(abc.TraitOverride) {
		t.Errorf("attrs = %#x", it.Attrs)
	}
	if !reflect.DeepEqual(it.Metadata, []uint32{0}) {
		t.Errorf("metadata = %v", it.Metadata)
	}
	if mt, ok := it.Data.(abc.MethodTrait); !ok || mt.DispID != 1 || mt.Method != 2 {
		t.Errorf("data = %#v", it.Data)
	}

	ct := mod.Classes[0].Traits[0]
	slot, ok := ct.Data.(abc.SlotTrait)
	if !ok {
		t.Fatalf("const trait data = %T", ct.Data)
	}
	if ct.Kind != abc.TraitConst || slot.SlotID != 1 || slot.TypeName != 4 || slot.ValueKind != abc.ConstantInt {
		t.Errorf("const trait = %+v %+v", ct, slot)
	}
	if ct.Metadata != nil {
		t.Error("trait without metadata attr should have nil Metadata")
	}

	st := mod.Scripts[0].Traits[0]
	if c, ok := st.Data.(abc.ClassTrait); !ok || c.SlotID != 1 || c.Class != 0 {
		t.Errorf("script trait = %#v", st.Data)
	}

	md := mod.Metadata[0]
	if name, _ := mod.String(md.Name); name != "Event" {
		t.Errorf("metadata name = %q", name)
	}
	if len(md.Items) != 1 || md.Items[0].Key != 0 || md.Items[0].Value != 2 {
		t.Errorf("metadata items = %+v", md.Items)
	}
}

func TestBodyOf(t *testing.T) {
	mod := mustParse(t, messageModule())

	b, ok := mod.BodyOf(2)
	if !ok {
		t.Fatal("method 2 should have a body")
	}
	if b.MaxStack != 3 || b.InitScopeDepth != 4 || b.MaxScopeDepth != 5 {
		t.Errorf("body header = %+v", b)
	}
	if !reflect.DeepEqual(b.Code, []byte{0xd0, 0x30, 0x47}) {
		t.Errorf("code = % x", b.Code)
	}
	if _, ok := mod.BodyOf(1); ok {
		t.Error("method 1 has no body")
	}
	if b, ok := mod.BodyOf(0); !ok || len(b.Code) != 1 {
		t.Error("method 0 body lookup failed")
	}
}

func TestOptionValueKinds(t *testing.T) {
	mod := mustParse(t, &abctest.Module{
		Uints:      []uint32{9},
		Doubles:    []float64{0.25},
		Strings:    []string{"s"},
		Namespaces: []abctest.Namespace{{Kind: 0x05, Name: 1}},
	})

	tests := []struct {
		opt  abc.OptionDetail
		want any
	}{
		{abc.OptionDetail{Kind: abc.ConstantUInt, Value: 1}, uint32(9)},
		{abc.OptionDetail{Kind: abc.ConstantDouble, Value: 1}, 0.25},
		{abc.OptionDetail{Kind: abc.ConstantUtf8, Value: 1}, "s"},
		{abc.OptionDetail{Kind: abc.ConstantTrue}, true},
		{abc.OptionDetail{Kind: abc.ConstantFalse}, false},
		{abc.OptionDetail{Kind: abc.ConstantNull}, nil},
		{abc.OptionDetail{Kind: abc.ConstantUndefined}, nil},
		{abc.OptionDetail{Kind: abc.ConstantPrivateNs, Value: 1}, abc.Namespace{Kind: abc.NamespacePrivate, Name: 1}},
	}
	for _, tt := range tests {
		got, err := mod.OptionValue(tt.opt)
		if err != nil {
			t.Errorf("%s: %v", tt.opt.Kind, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %v (%T), want %v", tt.opt.Kind, got, got, tt.want)
		}
	}

	if _, err := mod.OptionValue(abc.OptionDetail{Kind: abc.ConstantInt, Value: 1}); !errors.Is(err, errors.ErrMalformedInput) {
		t.Errorf("empty int pool lookup error = %v", err)
	}
	if _, err := mod.OptionValue(abc.OptionDetail{Kind: 0x02}); err == nil {
		t.Error("unknown kind should fail")
	}
}
