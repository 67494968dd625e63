package swf_test

import (
	"bytes"
	stdbinary "encoding/binary"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/abctest"
	"github.com/wippyai/swf-abc/internal/swftest"
	"github.com/wippyai/swf-abc/swf"
)

func fooModule() []byte {
	return abctest.MethodWithParams("deserializeAs_Foo", "buffer", "offset").Encode()
}

func TestParseEmptyContainer(t *testing.T) {
	f, err := swf.Parse(swftest.FWS(10, swftest.DefaultBody.Encode()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Tags) != 0 {
		t.Errorf("got %d tags", len(f.Tags))
	}
	if f.Err() != nil {
		t.Errorf("Err = %v", f.Err())
	}
	if len(f.Modules()) != 0 || len(f.FindMethods("")) != 0 {
		t.Error("empty container should have no modules")
	}
}

func TestParseFindsParamNames(t *testing.T) {
	body := swftest.DefaultBody.Encode(
		swftest.Tag(69, []byte{0x08, 0, 0, 0}),
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(1, "frame1", fooModule())),
		swftest.Tag(swftest.CodeShowFrame, nil),
		swftest.Tag(swftest.CodeEnd, nil),
	)

	builders := map[string]func(byte, []byte) []byte{
		"FWS": swftest.FWS,
		"CWS": swftest.CWS,
		"ZWS": swftest.ZWS,
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			f, err := swf.Parse(build(13, body))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if string(f.Header.Signature) != name {
				t.Errorf("signature = %s", f.Header.Signature)
			}
			if err := f.Err(); err != nil {
				t.Fatalf("Err: %v", err)
			}
			if len(f.Tags) != 4 {
				t.Fatalf("got %d tags, want 4", len(f.Tags))
			}
			if f.BodyLength != int64(f.Header.FileLength) {
				t.Errorf("BodyLength = %d, FileLength = %d", f.BodyLength, f.Header.FileLength)
			}

			mods := f.Modules()
			if len(mods) != 1 {
				t.Fatalf("got %d modules", len(mods))
			}
			if mods[0].Name != "frame1" || !mods[0].Lazy() {
				t.Errorf("module = %q lazy=%v", mods[0].Name, mods[0].Lazy())
			}

			matches := f.FindMethods("deserializeAs_")
			if len(matches) != 1 {
				t.Fatalf("got %d matches, want 1", len(matches))
			}
			m := matches[0]
			if m.Name != "deserializeAs_Foo" || m.Tag != 1 {
				t.Errorf("match = %+v", m)
			}
			if !m.HasParamNames {
				t.Fatal("HasParamNames = false")
			}
			if want := []string{"buffer", "offset"}; !reflect.DeepEqual(m.ParamNames, want) {
				t.Errorf("ParamNames = %v, want %v", m.ParamNames, want)
			}
		})
	}
}

func TestParseDoABCDefine(t *testing.T) {
	data := swftest.FWS(9, swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABCDefine, fooModule()),
	))
	f, err := swf.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mods := f.Modules()
	if len(mods) != 1 || mods[0].ABC == nil {
		t.Fatalf("modules = %+v", mods)
	}
	if mods[0].Name != "" || mods[0].Flags != 0 {
		t.Errorf("define tag has no name or flags: %+v", mods[0])
	}
	if len(f.FindMethods("Foo")) != 1 {
		t.Error("method not found")
	}
}

func TestDispatch(t *testing.T) {
	code := fooModule()

	tag := swf.Dispatch(swf.TagRecord{Code: swf.TagDoABC, Payload: swftest.DoABC(0, "x", code)})
	if tag.Err != nil || tag.Module == nil {
		t.Fatalf("Dispatch = %+v", tag)
	}
	if tag.Module.Name != "x" || tag.Module.Lazy() || !bytes.Equal(tag.Module.Bytecode, code) {
		t.Errorf("module = %+v", tag.Module)
	}

	other := swf.TagRecord{Code: swf.TagShowFrame, Payload: []byte{1, 2}}
	if got := swf.Dispatch(other); !reflect.DeepEqual(got, other) {
		t.Errorf("unknown tag changed: %+v", got)
	}

	missingNul := swf.Dispatch(swf.TagRecord{Code: swf.TagDoABC, Payload: []byte{0, 0, 0, 0, 'a', 'b'}})
	if !errors.Is(missingNul.Err, errors.ErrMalformedInput) || missingNul.Module != nil {
		t.Errorf("missing NUL: %+v", missingNul)
	}

	shortFlags := swf.Dispatch(swf.TagRecord{Code: swf.TagDoABC, Payload: []byte{1}})
	if !errors.Is(shortFlags.Err, errors.ErrMalformedInput) {
		t.Errorf("short flags: %v", shortFlags.Err)
	}
}

func TestParseModuleFailureIsScoped(t *testing.T) {
	broken := fooModule()
	broken = broken[:len(broken)-3]
	data := swftest.FWS(10, swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(0, "broken", broken)),
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(0, "good", fooModule())),
	))

	f, err := swf.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mods := f.Modules()
	if len(mods) != 2 {
		t.Fatalf("got %d modules", len(mods))
	}
	if mods[0].ABC != nil || !errors.Is(mods[0].Err, errors.ErrMalformedInput) {
		t.Errorf("broken module: abc=%v err=%v", mods[0].ABC, mods[0].Err)
	}
	if mods[1].ABC == nil || mods[1].Err != nil {
		t.Errorf("good module: %v", mods[1].Err)
	}

	err = f.Err()
	if len(multierr.Errors(err)) != 1 {
		t.Errorf("Err = %v, want one error", err)
	}
	if !errors.Is(err, errors.ErrMalformedInput) {
		t.Errorf("Err should match ErrMalformedInput: %v", err)
	}
	if got := f.FindMethods("deserializeAs_"); len(got) != 1 || got[0].Module.Name != "good" {
		t.Errorf("FindMethods = %+v", got)
	}
}

func TestParseTruncatedTagKeepsEarlierTags(t *testing.T) {
	data := swftest.FWS(10, swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(0, "good", fooModule())),
		swftest.Tag(87, bytes.Repeat([]byte{7}, 100)),
	))
	data = data[:len(data)-50]

	f, err := swf.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(f.Tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(f.Tags))
	}
	if f.Tags[0].Err != nil || f.Tags[0].Module.ABC == nil {
		t.Error("first tag should be intact")
	}
	if !errors.Is(f.Tags[1].Err, errors.ErrMalformedInput) {
		t.Errorf("second tag error = %v", f.Tags[1].Err)
	}
	if len(f.FindMethods("Foo")) != 1 {
		t.Error("method in earlier tag should still be found")
	}
}

func TestParseUnsupportedSignature(t *testing.T) {
	data := swftest.FWS(10, swftest.DefaultBody.Encode(swftest.Tag(swftest.CodeEnd, nil)))
	copy(data, "QWS")
	f, err := swf.Parse(data)
	if !errors.Is(err, errors.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want unsupported format", err)
	}
	if f != nil {
		t.Error("no file should be returned")
	}
}

func TestParseDecompressionErrors(t *testing.T) {
	body := swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(0, "m", fooModule())),
	)

	badZlibHeader := swftest.CWS(10, body)
	badZlibHeader[8], badZlibHeader[9] = 0xFF, 0xFF

	truncatedZlib := swftest.CWS(10, body)
	truncatedZlib = truncatedZlib[:len(truncatedZlib)-20]

	badLZMAProps := swftest.ZWS(10, body)
	badLZMAProps[12] = 0xFF

	tests := map[string][]byte{
		"zlib header":    badZlibHeader,
		"zlib truncated": truncatedZlib,
		"lzma props":     badLZMAProps,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := swf.Parse(data)
			if !errors.Is(err, errors.ErrDecompression) {
				t.Errorf("error = %v, want decompression error", err)
			}
		})
	}
}

func TestParseMaxBodySize(t *testing.T) {
	body := swftest.DefaultBody.Encode(swftest.Tag(87, make([]byte, 4096)))

	_, err := swf.Parse(swftest.CWS(10, body), swf.WithMaxBodySize(1024))
	if !errors.Is(err, errors.ErrDecompression) {
		t.Errorf("error = %v, want decompression error", err)
	}

	if _, err := swf.Parse(swftest.CWS(10, body), swf.WithMaxBodySize(int64(len(body)))); err != nil {
		t.Errorf("body exactly at the cap: %v", err)
	}
}

func TestParseLengthMismatchWarns(t *testing.T) {
	body := swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(1, "frame1", fooModule())),
		swftest.Tag(swftest.CodeShowFrame, nil),
		swftest.Tag(swftest.CodeEnd, nil),
	)

	builders := map[string]func(byte, []byte) []byte{
		"FWS": swftest.FWS,
		"CWS": swftest.CWS,
		"ZWS": swftest.ZWSWithEndMarker,
	}
	for name, build := range builders {
		for _, delta := range []int{16, -4} {
			t.Run(fmt.Sprintf("%s/%+d", name, delta), func(t *testing.T) {
				data := build(10, body)
				declared := stdbinary.LittleEndian.Uint32(data[4:8])
				stdbinary.LittleEndian.PutUint32(data[4:8], uint32(int(declared)+delta))

				core, logs := observer.New(zapcore.WarnLevel)
				f, err := swf.Parse(data, swf.WithLogger(zap.New(core)))
				if err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if err := f.Err(); err != nil {
					t.Errorf("Err() = %v", err)
				}
				if len(f.Tags) != 3 {
					t.Errorf("got %d tags, want 3", len(f.Tags))
				}
				if f.BodyLength != int64(declared) {
					t.Errorf("BodyLength = %d, want %d", f.BodyLength, declared)
				}
				if logs.FilterMessage("declared file length does not match body").Len() != 1 {
					t.Errorf("expected one mismatch warning, got %v", logs.All())
				}
			})
		}
	}
}

func TestParseLZMAWithoutEndMarker(t *testing.T) {
	body := swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(1, "frame1", fooModule())),
		swftest.Tag(swftest.CodeShowFrame, nil),
		swftest.Tag(swftest.CodeEnd, nil),
	)

	t.Run("exact length", func(t *testing.T) {
		data := swftest.ZWS(10, body)
		f, err := swf.Parse(data)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := f.Err(); err != nil {
			t.Errorf("Err() = %v", err)
		}
		if len(f.Tags) != 3 {
			t.Errorf("got %d tags, want 3", len(f.Tags))
		}
		if f.BodyLength != int64(f.Header.FileLength) {
			t.Errorf("BodyLength = %d, declared %d", f.BodyLength, f.Header.FileLength)
		}
	})

	t.Run("declared too long", func(t *testing.T) {
		data := swftest.ZWS(10, body)
		declared := stdbinary.LittleEndian.Uint32(data[4:8])
		stdbinary.LittleEndian.PutUint32(data[4:8], declared+16)

		f, err := swf.Parse(data)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if len(f.Tags) < 3 || f.Tags[2].Code != swftest.CodeEnd {
			t.Fatalf("tags = %+v", f.Tags)
		}
		if len(f.FindMethods("deserializeAs_")) != 1 {
			t.Error("module should decode")
		}
	})
}

func TestParseOptions(t *testing.T) {
	m := abctest.MethodWithParams("run")
	m.Methods[0].Name = 9
	badIndex := m.Encode()
	data := swftest.FWS(10, swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(0, "m", badIndex)),
	))

	f, err := swf.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mods := f.Modules(); mods[0].Err == nil {
		t.Error("eager validation should reject the bad name index")
	}

	f, err = swf.Parse(data, swf.WithLazyValidation())
	if err != nil {
		t.Fatalf("Parse lazy: %v", err)
	}
	mod := f.Modules()[0]
	if mod.Err != nil || mod.ABC == nil {
		t.Fatalf("lazy module: %v", mod.Err)
	}
	if _, err := mod.ABC.MethodName(0); !errors.Is(err, errors.ErrMalformedInput) {
		t.Errorf("MethodName error = %v", err)
	}

	f, err = swf.Parse(data, swf.WithoutModules())
	if err != nil {
		t.Fatalf("Parse without modules: %v", err)
	}
	mod = f.Modules()[0]
	if mod.ABC != nil || mod.Err != nil || !bytes.Equal(mod.Bytecode, badIndex) {
		t.Errorf("skipped module = %+v", mod)
	}
}

func TestParseLoggerReachesModuleDecoder(t *testing.T) {
	data := swftest.FWS(10, swftest.DefaultBody.Encode(
		swftest.Tag(swftest.CodeDoABC, swftest.DoABC(1, "frame1", fooModule())),
		swftest.Tag(swftest.CodeEnd, nil),
	))

	core, logs := observer.New(zapcore.DebugLevel)
	if _, err := swf.Parse(data, swf.WithLogger(zap.New(core))); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if logs.FilterMessage("parsed abc module").Len() != 1 {
		t.Errorf("expected the module decoder to log through WithLogger, got %v", logs.All())
	}
}
