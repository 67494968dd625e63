// Package abc decodes ABC (ActionScript Byte Code) modules.
//
// A module is a set of tables that reference each other by index: seven
// constant pools, method signatures, metadata, classes, scripts and method
// bodies. Parse reads them in a single linear pass and, unless configured
// otherwise, validates every cross-table index before returning.
//
// # Index Convention
//
// Every constant pool reserves index 0 for a sentinel that is never stored
// in the stream: the empty string, zero, NaN, the "any" namespace, or the
// "*" multiname. Stored entries occupy indices 1..N:
//
//	m, err := abc.Parse(bytecode)
//	s, _ := m.String(0) // ""
//	s, _ = m.String(1)  // first stored string
//
// Method, class, script and metadata tables have no sentinel and are
// indexed from 0.
//
// # Queries
//
// Module exposes resolvers for the common lookups:
//
//	for _, ref := range m.FindMethods("deserializeAs_") {
//	    names, err := m.ParamNames(ref.Index)
//	    if errors.Is(err, abc.ErrParamNamesUnavailable) {
//	        continue
//	    }
//	    fmt.Println(ref.Name, names)
//	}
//
// Every resolver bounds-checks its index, so queries stay safe on modules
// parsed with Config.Lazy.
//
// # Errors
//
// Decode failures are *errors.Error values with the table path and byte
// offset of the failure, and match errors.ErrMalformedInput.
package abc
