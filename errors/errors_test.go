package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseModule,
				Kind:   KindTruncated,
				Path:   []string{"method_info", "3", "param_names"},
				Offset: 120,
				Detail: "unexpected end of data",
			},
			contains: []string{"[module]", "truncated", "method_info.3.param_names", "offset 120", "unexpected end"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase:  PhaseHeader,
				Kind:   KindUnsupportedFormat,
				Offset: -1,
			},
			contains: []string{"[header]", "unsupported_format"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseDecompress,
				Kind:   KindDecompression,
				Detail: "zlib body",
				Cause:  errors.New("unexpected EOF"),
				Offset: -1,
			},
			contains: []string{"[decompress]", "decompression", "zlib body", "caused by", "unexpected EOF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoOffset(t *testing.T) {
	err := OutOfBounds(PhaseQuery, []string{"string"}, 9, 4)
	if strings.Contains(err.Error(), "offset") {
		t.Errorf("error without offset should not print one: %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Decompression("lzma body", cause)

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{Phase: PhaseModule, Kind: KindOutOfBounds}

	if !err.Is(&Error{Phase: PhaseModule, Kind: KindOutOfBounds}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseTag, Kind: KindOutOfBounds}) {
		t.Error("Is should not match different phase")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Error("out_of_bounds should match ErrMalformedInput")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Error("out_of_bounds should not match ErrUnsupportedFormat")
	}
}

func TestKindCategory(t *testing.T) {
	tests := []struct {
		kind Kind
		want Kind
	}{
		{KindOutOfBounds, KindMalformedInput},
		{KindTruncated, KindMalformedInput},
		{KindOverflow, KindMalformedInput},
		{KindInvalidEnum, KindMalformedInput},
		{KindMalformedInput, KindMalformedInput},
		{KindUnsupportedFormat, KindUnsupportedFormat},
		{KindDecompression, KindDecompression},
		{KindUnavailable, KindUnavailable},
	}
	for _, tt := range tests {
		if got := tt.kind.Category(); got != tt.want {
			t.Errorf("%s.Category() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseConstantPool, KindInvalidEnum).
		Path("namespace", "2").
		Offset(33).
		Value(0x42).
		Cause(cause).
		Detail("unknown kind 0x%02x", 0x42).
		Build()

	if err.Phase != PhaseConstantPool {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseConstantPool)
	}
	if err.Kind != KindInvalidEnum {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidEnum)
	}
	if len(err.Path) != 2 || err.Path[0] != "namespace" || err.Path[1] != "2" {
		t.Errorf("Path = %v, want [namespace 2]", err.Path)
	}
	if err.Offset != 33 {
		t.Errorf("Offset = %d, want 33", err.Offset)
	}
	if err.Value != 0x42 {
		t.Errorf("Value = %v, want 0x42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unknown kind 0x42" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestBuilderDefaultsOffset(t *testing.T) {
	err := New(PhaseTag, KindMalformedInput).Build()
	if err.Offset != -1 {
		t.Errorf("Offset = %d, want -1", err.Offset)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("UnsupportedFormat", func(t *testing.T) {
		err := UnsupportedFormat(PhaseHeader, "signature \"XYZ\"")
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Decompression", func(t *testing.T) {
		err := Decompression("zlib", errors.New("bad header"))
		if !errors.Is(err, ErrDecompression) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		err := Malformed(PhaseModule, []string{"method_info"}, 4, "option count exceeds param count")
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Kind = %v", err.Kind)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		err := Truncated(PhaseTag, []string{"tag", "4"}, 100, nil)
		if err.Kind != KindTruncated || err.Offset != 100 {
			t.Errorf("got %+v", err)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseQuery, []string{"string"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		cause := errors.New("varint: value exceeds 30 bits")
		err := Overflow(PhaseModule, []string{"method_info"}, 7, "u30", cause)
		if !strings.Contains(err.Detail, "u30") {
			t.Errorf("Detail = %q", err.Detail)
		}
		if !errors.Is(err, ErrMalformedInput) || !errors.Is(err, cause) {
			t.Errorf("Overflow should match malformed input and its cause: %v", err)
		}
		if err.Offset != 7 {
			t.Errorf("Offset = %d, want 7", err.Offset)
		}
	})

	t.Run("InvalidEnum", func(t *testing.T) {
		err := InvalidEnum(PhaseConstantPool, []string{"multiname", "1"}, 9, byte(0x55), "multiname kind")
		if err.Detail != "invalid multiname kind 0x55" {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("Unavailable", func(t *testing.T) {
		err := Unavailable(PhaseQuery, []string{"method_info", "0"}, "param names")
		if errors.Is(err, ErrMalformedInput) {
			t.Error("unavailable must not be malformed input")
		}
	})
}
