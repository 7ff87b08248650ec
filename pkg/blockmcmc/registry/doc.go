// Package registry provides a generic, thread-safe, insertion-ordered
// registry for values indexed by key.
//
// Iteration always follows registration order, so anything built on top of
// a Registry enumerates its entries deterministically.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//	r.Register("int32", 1)
//	r.Register("int64", 2)
//	r.Keys() // [int32 int64]
//
// # Closed Sets
//
// Seal freezes the key set. Any later Register panics, which turns a
// forgotten registration into a build-time failure rather than a silent
// runtime miss:
//
//	r.Seal()
//	r.Register("uint8", 3) // panics
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Range iterates over a
// snapshot taken under the read lock.
package registry
