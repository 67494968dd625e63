package testbed

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/wippyai/swf-abc/abc"
	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/abctest"
	"github.com/wippyai/swf-abc/internal/swftest"
	"github.com/wippyai/swf-abc/swf"
)

var containers = map[string]func(byte, []byte) []byte{
	"FWS":        swftest.FWS,
	"CWS":        swftest.CWS,
	"ZWS":        swftest.ZWS,
	"ZWS marker": swftest.ZWSWithEndMarker,
}

// messageBody holds n bytecode tags, each defining deserializeAs_MsgN with
// parameters named input and offset.
func messageBody(n int) []byte {
	var tags [][]byte
	for i := range n {
		code := abctest.MethodWithParams(fmt.Sprintf("deserializeAs_Msg%d", i), "input", "offset").Encode()
		tags = append(tags,
			swftest.Tag(swftest.CodeDoABC, swftest.DoABC(1, fmt.Sprintf("frame%d", i), code)),
			swftest.Tag(swftest.CodeShowFrame, nil),
		)
	}
	tags = append(tags, swftest.Tag(swftest.CodeEnd, nil))
	return swftest.DefaultBody.Encode(tags...)
}

func TestDofusInvoker(t *testing.T) {
	data, err := os.ReadFile("DofusInvoker.swf")
	if err != nil {
		t.Skipf("DofusInvoker.swf not found: %v", err)
	}

	f, err := swf.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Modules()) == 0 {
		t.Fatal("no bytecode modules")
	}
	matches := f.FindMethods("deserializeAs_")
	if len(matches) == 0 {
		t.Fatal("no deserializers found")
	}
	for _, m := range matches {
		mi, err := m.Module.ABC.Method(m.Method)
		if err != nil {
			t.Fatalf("%s: %v", m.Name, err)
		}
		if m.HasParamNames && len(m.ParamNames) != int(mi.ParamCount) {
			t.Errorf("%s: %d names for %d params", m.Name, len(m.ParamNames), mi.ParamCount)
		}
	}
}

func TestEndToEnd_AllContainers(t *testing.T) {
	body := messageBody(3)
	for name, build := range containers {
		t.Run(name, func(t *testing.T) {
			f, err := swf.Parse(build(15, body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := f.Err(); err != nil {
				t.Fatalf("decode errors: %v", err)
			}
			if len(f.Tags) != 7 {
				t.Errorf("got %d tags, want 7", len(f.Tags))
			}

			matches := f.FindMethods("deserializeAs_")
			if len(matches) != 3 {
				t.Fatalf("got %d matches, want 3", len(matches))
			}
			for i, m := range matches {
				if want := fmt.Sprintf("deserializeAs_Msg%d", i); m.Name != want {
					t.Errorf("match %d = %s, want %s", i, m.Name, want)
				}
				if !reflect.DeepEqual(m.ParamNames, []string{"input", "offset"}) {
					t.Errorf("%s params = %v", m.Name, m.ParamNames)
				}
			}
		})
	}
}

func TestEndToEnd_StreamingSource(t *testing.T) {
	body := messageBody(2)
	for name, build := range containers {
		t.Run(name, func(t *testing.T) {
			data := build(15, body)
			r := iotest.OneByteReader(bytes.NewReader(data))

			f, err := swf.ParseReader(r)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(f.FindMethods("deserializeAs_")) != 2 {
				t.Error("expected two deserializers from a one-byte reader")
			}
			if f.BodyLength != int64(f.Header.FileLength) {
				t.Errorf("BodyLength = %d, declared %d", f.BodyLength, f.Header.FileLength)
			}
		})
	}
}

func TestEndToEnd_ConcurrentParses(t *testing.T) {
	inputs := make([][]byte, 0, len(containers))
	for _, build := range containers {
		inputs = append(inputs, build(15, messageBody(4)))
	}

	const numGoroutines = 8
	const parsesPerGoroutine = 10

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)

	for g := range numGoroutines {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range parsesPerGoroutine {
				data := inputs[(id+i)%len(inputs)]
				f, err := swf.Parse(data)
				if err != nil {
					errs <- err
					return
				}
				if n := len(f.FindMethods("deserializeAs_")); n != 4 {
					errs <- fmt.Errorf("goroutine %d: got %d matches", id, n)
					return
				}
			}
		}(g)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent error: %v", err)
	}
}

func TestEndToEnd_SharedModuleQueries(t *testing.T) {
	m := abctest.MethodWithParams("deserializeAs_Shared", "input", "offset")
	mod, err := abc.Parse(m.Encode())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names, err := mod.ParamNames(0)
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(names, []string{"input", "offset"}) {
				errs <- fmt.Errorf("names = %v", names)
				return
			}
			if _, ok := mod.BodyOf(0); !ok {
				errs <- fmt.Errorf("body missing")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent error: %v", err)
	}
}

func TestEndToEnd_TruncatedTailKeepsModules(t *testing.T) {
	body := messageBody(2)
	body = append(body[:len(body)-2], swftest.Tag(87, bytes.Repeat([]byte{0xAB}, 80))[:40]...)

	for name, build := range containers {
		t.Run(name, func(t *testing.T) {
			f, err := swf.Parse(build(15, body))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			last := f.Tags[len(f.Tags)-1]
			if !errors.Is(last.Err, errors.ErrMalformedInput) {
				t.Errorf("last tag error = %v", last.Err)
			}
			if len(f.FindMethods("deserializeAs_")) != 2 {
				t.Error("modules before the truncated tag should decode")
			}
		})
	}
}

func TestInvalidContainer(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, errors.ErrMalformedInput},
		{"png", []byte("\x89PNG\r\n\x1a\n"), errors.ErrUnsupportedFormat},
		{"zlib garbage", append([]byte("CWS\x0a\x20\x00\x00\x00"), bytes.Repeat([]byte{0x55}, 24)...), errors.ErrDecompression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := swf.Parse(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if f != nil {
				t.Error("no file should be returned")
			}
		})
	}
}
