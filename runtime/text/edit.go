package text

import "strconv"

// Insert inserts the textual form of v at offset, using the same conversions
// as Append. A rune inserts its decimal value; InsertChar inserts a
// character.
func (b *Builder) Insert(offset int, v any) error {
	switch x := v.(type) {
	case string:
		return b.InsertString(offset, x)
	case []uint16:
		return b.InsertChars(offset, x, 0, len(x))
	case *SyncBuilder:
		if x == nil {
			return b.InsertString(offset, nullLiteral)
		}
		u := x.UTF16()
		return b.InsertChars(offset, u, 0, len(u))
	case CharSequence:
		if isNil(x) {
			return b.InsertString(offset, nullLiteral)
		}
		return b.InsertSequence(offset, x, 0, x.Len())
	case uint16:
		return b.InsertChar(offset, x)
	}
	return b.InsertString(offset, canonicalString(v))
}

// InsertString inserts s at offset by shifting the tail right and writing s
// into the gap.
func (b *Builder) InsertString(offset int, s string) error {
	if err := checkOffset("insert", offset, b.count); err != nil {
		return err
	}
	n := utf16Len(s)
	if err := b.ensureCapacity(b.count + n); err != nil {
		return err
	}
	b.shift(offset, n)
	b.count += n
	b.putString(offset, s)
	return nil
}

// InsertChars inserts length code units of chars, starting at chars[offset],
// at index.
func (b *Builder) InsertChars(index int, chars []uint16, offset, length int) error {
	if err := checkOffset("insert", index, b.count); err != nil {
		return err
	}
	if err := checkFromSize("insert", offset, length, len(chars)); err != nil {
		return err
	}
	if err := b.ensureCapacity(b.count + length); err != nil {
		return err
	}
	b.shift(index, length)
	b.count += length
	b.putUnits(index, chars[offset:offset+length])
	return nil
}

// InsertSequence inserts cs[begin:end) at dstOffset. A nil sequence inserts
// "null".
func (b *Builder) InsertSequence(dstOffset int, cs CharSequence, begin, end int) error {
	if cs == nil || isNil(cs) {
		cs = UnitsOf(nullLiteral)
	}
	if err := checkOffset("insert", dstOffset, b.count); err != nil {
		return err
	}
	if err := checkRange("insert", begin, end, cs.Len()); err != nil {
		return err
	}
	// Snapshot first: cs may be this builder.
	u := make([]uint16, end-begin)
	for i := range u {
		c, err := cs.CharAt(begin + i)
		if err != nil {
			return err
		}
		u[i] = c
	}
	return b.InsertChars(dstOffset, u, 0, len(u))
}

// InsertBool inserts "true" or "false" at offset.
func (b *Builder) InsertBool(offset int, v bool) error {
	return b.InsertString(offset, FormatBool(v))
}

// InsertChar inserts a single code unit at offset.
func (b *Builder) InsertChar(offset int, c uint16) error {
	return b.InsertChars(offset, []uint16{c}, 0, 1)
}

// InsertInt inserts the decimal form of a 32-bit integer at offset.
func (b *Builder) InsertInt(offset int, v int32) error {
	return b.InsertString(offset, strconv.FormatInt(int64(v), 10))
}

// InsertLong inserts the decimal form of a 64-bit integer at offset.
func (b *Builder) InsertLong(offset int, v int64) error {
	return b.InsertString(offset, strconv.FormatInt(v, 10))
}

// InsertFloat inserts the canonical form of a 32-bit float at offset.
func (b *Builder) InsertFloat(offset int, v float32) error {
	return b.InsertString(offset, FormatFloat(v))
}

// InsertDouble inserts the canonical form of a 64-bit float at offset.
func (b *Builder) InsertDouble(offset int, v float64) error {
	return b.InsertString(offset, FormatDouble(v))
}

// Delete removes the characters in [begin, end). An end beyond the current
// length is clamped to it.
func (b *Builder) Delete(begin, end int) error {
	if end > b.count {
		end = b.count
	}
	if err := checkRange("delete", begin, end, b.count); err != nil {
		return err
	}
	n := end - begin
	if n > 0 {
		b.shift(end, -n)
		b.count -= n
	}
	return nil
}

// DeleteCharAt removes the character at index.
func (b *Builder) DeleteCharAt(index int) error {
	if err := checkIndex("deleteCharAt", index, b.count); err != nil {
		return err
	}
	b.shift(index+1, -1)
	b.count--
	return nil
}

// Replace substitutes the characters in [begin, end) with s.
func (b *Builder) Replace(begin, end int, s string) error {
	if err := checkRange("replace", begin, end, b.count); err != nil {
		return err
	}
	n := utf16Len(s)
	newCount := b.count - (end - begin) + n
	if err := b.ensureCapacity(newCount); err != nil {
		return err
	}
	b.shift(end, newCount-b.count)
	b.count = newCount
	b.putString(begin, s)
	return nil
}

// Reverse reverses the sequence of code units in place. Surrogate pairs are
// not treated specially: a pair is reversed like any two units, so pairing
// may be created or broken.
func (b *Builder) Reverse() {
	n := b.count - 1
	for i, j := 0, n; i < j; i, j = i+1, j-1 {
		ci, cj := b.unit(i), b.unit(j)
		b.putUnit(i, cj)
		b.putUnit(j, ci)
	}
}
