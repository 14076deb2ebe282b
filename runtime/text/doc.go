// Package text provides a mutable UTF-16 character sequence with a compact
// storage optimization.
//
// # Storage
//
// A Buffer stores its characters in one of two densities:
//
//   - Latin1: one byte per character, used while every stored character is
//     in the range U+0000..U+00FF
//   - UTF16: two bytes per character (little-endian code units), used as soon
//     as any operation writes a character outside that range
//
// Promotion from Latin1 to UTF16 ("inflation") happens lazily, the moment a
// wide character is written, and is never reversed. Lengths, offsets and
// indexes are always expressed in UTF-16 code units, never in bytes.
//
// # Builder
//
// Builder layers the familiar append/insert/delete/replace/reverse/search
// operations on top of Buffer:
//
//	b := text.New()
//	_ = b.AppendString("hello")
//	_ = b.Insert(0, 42)
//	s, _ := b.SubstringRange(0, 2) // "42"
//
// Every operation validates its offsets against the current length before it
// mutates anything; a rejected call returns an error wrapping
// ErrIndexOutOfRange and leaves the builder unchanged. Growth beyond the
// configured ceiling returns an error wrapping ErrOutOfMemory.
//
// Builder is not safe for concurrent use. SyncBuilder wraps a Builder behind a
// single mutex held for the full duration of every call, including implicit
// growth and promotion.
package text
