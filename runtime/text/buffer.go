package text

import (
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// Coder identifies the storage density of a Buffer.
type Coder uint8

const (
	// Latin1 stores one byte per character.
	Latin1 Coder = iota
	// UTF16 stores one little-endian 16-bit code unit per character.
	UTF16
)

func (c Coder) String() string {
	if c == Latin1 {
		return "latin1"
	}
	return "utf16"
}

const (
	// MaxCapacity is the default growth ceiling, in characters.
	MaxCapacity = math.MaxInt32 - 8

	// DefaultCapacity is the initial capacity of New.
	DefaultCapacity = 16
)

// Buffer is a resizable store of UTF-16 code units that keeps a one byte per
// character representation until a character above U+00FF is written.
//
// The zero value is an empty Latin1 buffer with the default ceiling.
type Buffer struct {
	value []byte
	coder Coder
	count int
	limit int
}

func newBuffer(capacity, limit int) (Buffer, error) {
	if capacity < 0 {
		return Buffer{}, ErrNegativeCapacity
	}
	if limit <= 0 {
		limit = MaxCapacity
	}
	if capacity > limit {
		return Buffer{}, &CapacityError{Requested: capacity, Limit: limit}
	}
	return Buffer{value: make([]byte, capacity), limit: limit}, nil
}

func (b *Buffer) ceiling() int {
	if b.limit <= 0 {
		return MaxCapacity
	}
	return b.limit
}

// Len returns the number of characters stored.
func (b *Buffer) Len() int { return b.count }

// Capacity returns the number of characters that fit without reallocation.
func (b *Buffer) Capacity() int { return len(b.value) >> b.coder }

// Coder returns the current storage density.
func (b *Buffer) Coder() Coder { return b.coder }

// EnsureCapacity grows the store so that at least min characters fit.
// Non-positive arguments are ignored.
func (b *Buffer) EnsureCapacity(min int) error {
	if min > 0 {
		return b.ensureCapacity(min)
	}
	return nil
}

func (b *Buffer) ensureCapacity(min int) error {
	if min-b.Capacity() <= 0 {
		return nil
	}
	n, err := b.newCapacity(min)
	if err != nil {
		return err
	}
	grown := make([]byte, n<<b.coder)
	copy(grown, b.value[:b.count<<b.coder])
	b.value = grown
	return nil
}

// newCapacity applies the growth policy: twice the old capacity plus two, or
// the requested minimum when that is larger, capped by the ceiling.
func (b *Buffer) newCapacity(min int) (int, error) {
	limit := b.ceiling()
	if min < 0 || min > limit {
		return 0, &CapacityError{Requested: min, Limit: limit}
	}
	n := b.Capacity()*2 + 2
	if n < min {
		n = min
	}
	if n > limit {
		n = limit
	}
	return n, nil
}

// inflate switches the store to UTF16 at the same capacity. Each Latin1 byte
// becomes the low byte of a code unit. The first max(upto, Len) characters
// are kept, so a writer that is ahead of count passes its cursor.
func (b *Buffer) inflate(upto int) {
	if b.coder == UTF16 {
		return
	}
	n := max(upto, b.count)
	wide := make([]byte, len(b.value)<<1)
	for i := 0; i < n; i++ {
		wide[i<<1] = b.value[i]
	}
	b.value = wide
	b.coder = UTF16
}

// TrimToSize reallocates the store down to exactly Len characters.
func (b *Buffer) TrimToSize() {
	if n := b.count << b.coder; n < len(b.value) {
		trimmed := make([]byte, n)
		copy(trimmed, b.value[:n])
		b.value = trimmed
	}
}

// SetLength truncates the buffer or pads it with U+0000 up to n characters.
// Truncation never releases storage.
func (b *Buffer) SetLength(n int) error {
	if n < 0 {
		return &IndexError{Op: "setLength", Index: n, Length: b.count}
	}
	if err := b.ensureCapacity(n); err != nil {
		return err
	}
	if b.count < n {
		clear(b.value[b.count<<b.coder : n<<b.coder])
	}
	b.count = n
	return nil
}

// CharAt returns the code unit at index.
func (b *Buffer) CharAt(index int) (uint16, error) {
	if err := checkIndex("charAt", index, b.count); err != nil {
		return 0, err
	}
	return b.unit(index), nil
}

// CodePointAt returns the code point starting at index, combining a
// surrogate pair when one starts there.
func (b *Buffer) CodePointAt(index int) (rune, error) {
	if err := checkIndex("codePointAt", index, b.count); err != nil {
		return 0, err
	}
	hi := b.unit(index)
	if utf16.IsSurrogate(rune(hi)) && hi < 0xDC00 && index+1 < b.count {
		if lo := b.unit(index + 1); lo >= 0xDC00 && lo <= 0xDFFF {
			return utf16.DecodeRune(rune(hi), rune(lo)), nil
		}
	}
	return rune(hi), nil
}

// CodePointBefore returns the code point ending just before index.
func (b *Buffer) CodePointBefore(index int) (rune, error) {
	i := index - 1
	if err := checkIndex("codePointBefore", i, b.count); err != nil {
		return 0, err
	}
	lo := b.unit(i)
	if lo >= 0xDC00 && lo <= 0xDFFF && i > 0 {
		if hi := b.unit(i - 1); hi >= 0xD800 && hi < 0xDC00 {
			return utf16.DecodeRune(rune(hi), rune(lo)), nil
		}
	}
	return rune(lo), nil
}

// CodePointCount returns the number of code points in [begin, end). An
// unpaired surrogate counts as one code point.
func (b *Buffer) CodePointCount(begin, end int) (int, error) {
	if err := checkRange("codePointCount", begin, end, b.count); err != nil {
		return 0, err
	}
	n := end - begin
	if b.coder == Latin1 {
		return n, nil
	}
	for i := begin; i < end-1; i++ {
		if hi := b.unit(i); hi >= 0xD800 && hi < 0xDC00 {
			if lo := b.unit(i + 1); lo >= 0xDC00 && lo <= 0xDFFF {
				n--
				i++
			}
		}
	}
	return n, nil
}

// GetChars copies the code units in [srcBegin, srcEnd) into dst starting at
// dstBegin.
func (b *Buffer) GetChars(srcBegin, srcEnd int, dst []uint16, dstBegin int) error {
	if err := checkRange("getChars", srcBegin, srcEnd, b.count); err != nil {
		return err
	}
	n := srcEnd - srcBegin
	if err := checkFromSize("getChars", dstBegin, n, len(dst)); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		dst[dstBegin+i] = b.unit(srcBegin + i)
	}
	return nil
}

// SetCharAt replaces the code unit at index, promoting the store first when
// c does not fit in one byte.
func (b *Buffer) SetCharAt(index int, c uint16) error {
	if err := checkIndex("setCharAt", index, b.count); err != nil {
		return err
	}
	if b.coder == Latin1 && c > 0xFF {
		b.inflate(b.count)
	}
	b.putUnit(index, c)
	return nil
}

// unit reads the code unit at i without bounds checking.
func (b *Buffer) unit(i int) uint16 {
	if b.coder == Latin1 {
		return uint16(b.value[i])
	}
	return uint16(b.value[i<<1]) | uint16(b.value[i<<1+1])<<8
}

// putUnit stores c at i. The caller guarantees the coder can represent c.
func (b *Buffer) putUnit(i int, c uint16) {
	if b.coder == Latin1 {
		b.value[i] = byte(c)
		return
	}
	b.value[i<<1] = byte(c)
	b.value[i<<1+1] = byte(c >> 8)
}

// getBytes copies the raw store for [begin, end) into dst using coder,
// widening Latin1 storage when dst is UTF16. dst must be large enough.
func (b *Buffer) getBytes(dst []byte, dstIndex, begin, end int, coder Coder) {
	if b.coder == coder {
		copy(dst[dstIndex<<coder:], b.value[begin<<coder:end<<coder])
		return
	}
	// Only Latin1 -> UTF16 is reachable: a UTF16 source never targets Latin1.
	for i := begin; i < end; i++ {
		j := (dstIndex + i - begin) << 1
		dst[j] = b.value[i]
		dst[j+1] = 0
	}
}

// putBytes writes the raw Latin1 or UTF16 bytes of another store at index.
func (b *Buffer) putBytes(index int, src []byte, srcCoder Coder) {
	if srcCoder == UTF16 && b.coder == Latin1 {
		b.inflate(index)
	}
	if b.coder == srcCoder {
		copy(b.value[index<<b.coder:], src)
		return
	}
	for i, c := range src {
		j := (index + i) << 1
		b.value[j] = c
		b.value[j+1] = 0
	}
}

// shift moves the characters in [offset, count) by n positions. A negative n
// shifts left. Overlapping ranges are handled by copy.
func (b *Buffer) shift(offset, n int) {
	c := b.coder
	copy(b.value[(offset+n)<<c:(b.count+n)<<c], b.value[offset<<c:b.count<<c])
}

// putString writes s at index, converting from UTF-8 to UTF-16. Capacity must
// already be ensured. A Latin1 store is promoted at the first wide rune; the
// characters already written stay in place and only the remaining suffix is
// written wide.
func (b *Buffer) putString(index int, s string) {
	i := index
	if b.coder == Latin1 {
		for k, r := range s {
			if r > 0xFF {
				b.inflate(i)
				b.putStringWide(i, s[k:])
				return
			}
			b.value[i] = byte(r)
			i++
		}
		return
	}
	b.putStringWide(i, s)
}

func (b *Buffer) putStringWide(i int, s string) {
	for _, r := range s {
		if r >= 0x10000 {
			hi, lo := utf16.EncodeRune(r)
			b.putUnit(i, uint16(hi))
			b.putUnit(i+1, uint16(lo))
			i += 2
			continue
		}
		b.putUnit(i, uint16(r))
		i++
	}
}

// putUnits writes code units at index with the same single promotion rule as
// putString.
func (b *Buffer) putUnits(index int, units []uint16) {
	for k, c := range units {
		if b.coder == Latin1 && c > 0xFF {
			b.inflate(index + k)
		}
		b.putUnit(index+k, c)
	}
}

// putSequence writes cs[begin:end) at index. The range must already be
// validated against cs.
func (b *Buffer) putSequence(index int, cs CharSequence, begin, end int) error {
	for k := begin; k < end; k++ {
		c, err := cs.CharAt(k)
		if err != nil {
			return err
		}
		if b.coder == Latin1 && c > 0xFF {
			b.inflate(index + k - begin)
		}
		b.putUnit(index+k-begin, c)
	}
	return nil
}

// units returns a copy of the code units in [begin, end).
func (b *Buffer) units(begin, end int) []uint16 {
	out := make([]uint16, end-begin)
	for i := range out {
		out[i] = b.unit(begin + i)
	}
	return out
}

// decode converts [begin, end) to a Go string. Unpaired surrogates become
// U+FFFD.
func (b *Buffer) decode(begin, end int) string {
	if b.coder == Latin1 {
		raw := b.value[begin:end]
		ascii := true
		for _, c := range raw {
			if c >= utf8.RuneSelf {
				ascii = false
				break
			}
		}
		if ascii {
			return string(raw)
		}
		out := make([]byte, 0, len(raw)*2)
		for _, c := range raw {
			out = utf8.AppendRune(out, rune(c))
		}
		return string(out)
	}
	return string(utf16.Decode(b.units(begin, end)))
}

// utf16Len returns the number of UTF-16 code units needed to encode s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
