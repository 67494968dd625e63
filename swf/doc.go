// Package swf reads SWF containers and the bytecode modules embedded in
// them.
//
// A container starts with an 8-byte prefix (signature, version, declared
// length). The rest of the file is the body, stored as is (FWS), zlib
// compressed (CWS) or LZMA compressed (ZWS). The body opens with the stage
// rectangle, frame rate and frame count, followed by a stream of tags.
//
// # Scanning
//
// Open returns a Scanner that frames one tag per call and never reads
// ahead of the tag it returns:
//
//	s, err := swf.Open(r)
//	if err != nil {
//	    return err
//	}
//	for tag, err := range s.All() {
//	    if err != nil {
//	        return err
//	    }
//	    tag = swf.Dispatch(tag)
//	    if tag.Module != nil {
//	        fmt.Println(tag.Module.Name, len(tag.Module.Bytecode))
//	    }
//	}
//
// Stopping early is enough to cancel; nothing is left running.
//
// # Parsing
//
// Parse reads the whole container and decodes every DoABC module:
//
//	f, err := swf.Parse(data)
//	if err != nil {
//	    return err // unsupported signature, corrupt body, short header
//	}
//	for _, m := range f.FindMethods("deserializeAs_") {
//	    fmt.Println(m.Name, m.ParamNames)
//	}
//
// Failures scoped to one tag or module do not fail the parse. They are
// kept on the tag and combined by File.Err.
package swf
