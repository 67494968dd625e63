package swf

import (
	"github.com/wippyai/swf-abc/abc"
	"github.com/wippyai/swf-abc/errors"
	"github.com/wippyai/swf-abc/internal/binary"
)

// ModuleTag is the decoded view of a DoABC or DoABCDefine tag.
type ModuleTag struct {
	Flags    uint32 // DoABCLazyInitialize; zero for DoABCDefine
	Name     string // empty for DoABCDefine
	Bytecode []byte // aliases the tag payload

	// ABC is the decoded module, nil if decoding was skipped or failed.
	ABC *abc.Module

	// Err is the module decode failure, if any.
	Err error
}

// Lazy reports whether the module asked to be initialized on first use.
func (m *ModuleTag) Lazy() bool {
	return m.Flags&DoABCLazyInitialize != 0
}

// Dispatch decodes the framing of tags it knows and returns every other tag
// unchanged. It does not decode the bytecode itself.
func Dispatch(tag TagRecord) TagRecord {
	switch tag.Code {
	case TagDoABC:
		r := binary.NewReader(tag.Payload)
		flags, err := r.ReadU32()
		if err != nil {
			tag.Err = dispatchErr(tag, "flags", err)
			return tag
		}
		name, err := r.ReadCString()
		if err != nil {
			tag.Err = dispatchErr(tag, "name", err)
			return tag
		}
		tag.Module = &ModuleTag{Flags: flags, Name: name, Bytecode: r.ReadRemaining()}

	case TagDoABCDefine:
		tag.Module = &ModuleTag{Bytecode: tag.Payload}
	}
	return tag
}

func dispatchErr(tag TagRecord, field string, err error) error {
	return errors.New(errors.PhaseTag, errors.KindTruncated).
		Path(tag.Code.String(), field).
		Offset(int(tag.Offset)).
		Cause(err).
		Detail("payload ends inside %s", field).
		Build()
}
