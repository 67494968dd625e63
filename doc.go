// Package swfabc decodes SWF containers and the ABC bytecode modules they
// embed.
//
// The decoder is read-only. It frames every tag of a container, hands the
// payload of each DoABC tag to the bytecode parser, and exposes the parsed
// tables for queries such as "which methods are named deserializeAs_*, and
// what are their parameter names".
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	swfabc/              Root package (documentation only)
//	├── swf/             Container decoding and the tag scanner
//	├── abc/             ABC module parser and queries
//	├── errors/          Structured error types for debugging
//	├── internal/binary/ Byte and bit-field readers/writers
//	└── cmd/swfinspect/  Command-line and interactive inspector
//
// # Quick Start
//
// Parse a file and look up deserializers:
//
//	f, err := swf.Parse(data)
//	if err != nil {
//	    log.Fatal(err) // unsupported signature or corrupt compression
//	}
//
//	for _, m := range f.FindMethods("deserializeAs_") {
//	    if m.HasParamNames {
//	        fmt.Println(m.Name, m.ParamNames)
//	    }
//	}
//
//	// Tag and module failures do not abort the parse.
//	if err := f.Err(); err != nil {
//	    log.Println(err)
//	}
//
// Tags can also be pulled one at a time without decoding modules:
//
//	s, err := swf.Open(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for tag, err := range s.All() {
//	    if err != nil {
//	        break
//	    }
//	    fmt.Println(tag.Code, tag.Length)
//	}
//
// # Index Convention
//
// Constant-pool tables store entries at indices 1..N. Index 0 resolves to a
// per-table sentinel (0, NaN, the empty string, the any namespace, the any
// name) and never to a stored record. Entities refer to each other by index
// only, so a Module holds no pointers between its tables.
//
// # Thread Safety
//
// Parsing allocates everything it uses; independent inputs may be parsed
// concurrently. A parsed Module or File is safe for concurrent reads. A
// Scanner must be used by a single goroutine.
package swfabc
