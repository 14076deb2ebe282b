package text

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

const nullLiteral = "null"

// Append appends the textual form of v. The mapping follows the runtime's
// overloads:
//
//   - nil (including typed nil pointers) appends "null"
//   - string, CharSequence (*Builder, *SyncBuilder, Units) append their characters
//   - []uint16 appends the code units as a char array
//   - bool, uint16 (a char), int32 (an int), int64 and int (a long),
//     float32 and float64 use the canonical primitive conversions
//   - fmt.Stringer and error use String and Error
//   - anything else is converted with fmt.Sprint
//
// A rune is an int32, so b.Append('x') appends "120". Use AppendCodePoint
// or AppendChar to append a character.
func (b *Builder) Append(v any) error {
	switch x := v.(type) {
	case nil:
		return b.AppendNull()
	case string:
		return b.AppendString(x)
	case *Builder:
		if x == nil {
			return b.AppendNull()
		}
		return b.AppendBuilder(x)
	case *SyncBuilder:
		if x == nil {
			return b.AppendNull()
		}
		return b.AppendChars(x.UTF16())
	case []uint16:
		return b.AppendChars(x)
	case CharSequence:
		if isNil(x) {
			return b.AppendNull()
		}
		return b.AppendSequence(x, 0, x.Len())
	case bool:
		return b.AppendBool(x)
	case uint16:
		return b.AppendChar(x)
	case int32:
		return b.AppendInt(x)
	case int64:
		return b.AppendLong(x)
	case int:
		return b.AppendLong(int64(x))
	case float32:
		return b.AppendFloat(x)
	case float64:
		return b.AppendDouble(x)
	default:
		return b.AppendString(canonicalString(v))
	}
}

// canonicalString converts any value to text for Append and Insert.
func canonicalString(v any) string {
	if v == nil || isNil(v) {
		return nullLiteral
	}
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	case bool:
		return FormatBool(x)
	case uint16:
		return string(utf16.Decode([]uint16{x}))
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case float32:
		return FormatFloat(x)
	case float64:
		return FormatDouble(x)
	}
	return fmt.Sprint(v)
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// AppendNull appends the four characters "null".
func (b *Builder) AppendNull() error {
	if err := b.ensureCapacity(b.count + len(nullLiteral)); err != nil {
		return err
	}
	b.putString(b.count, nullLiteral)
	b.count += len(nullLiteral)
	return nil
}

// AppendString appends s, promoting the store at most once while copying.
func (b *Builder) AppendString(s string) error {
	n := utf16Len(s)
	if err := b.ensureCapacity(b.count + n); err != nil {
		return err
	}
	b.putString(b.count, s)
	b.count += n
	return nil
}

// AppendBuilder appends the content of other with a raw store copy.
func (b *Builder) AppendBuilder(other *Builder) error {
	n := other.count
	if err := b.ensureCapacity(b.count + n); err != nil {
		return err
	}
	if other == b {
		src := make([]byte, n<<b.coder)
		copy(src, b.value)
		b.putBytes(b.count, src, b.coder)
	} else {
		b.putBytes(b.count, other.value[:n<<other.coder], other.coder)
	}
	b.count += n
	return nil
}

// AppendChars appends every code unit of chars.
func (b *Builder) AppendChars(chars []uint16) error {
	return b.AppendCharsRange(chars, 0, len(chars))
}

// AppendCharsRange appends length code units of chars starting at offset.
func (b *Builder) AppendCharsRange(chars []uint16, offset, length int) error {
	if err := checkFromSize("append", offset, length, len(chars)); err != nil {
		return err
	}
	if err := b.ensureCapacity(b.count + length); err != nil {
		return err
	}
	b.putUnits(b.count, chars[offset:offset+length])
	b.count += length
	return nil
}

// AppendSequence appends cs[begin:end). A nil sequence appends "null".
func (b *Builder) AppendSequence(cs CharSequence, begin, end int) error {
	if cs == nil || isNil(cs) {
		cs = UnitsOf(nullLiteral)
	}
	if err := checkRange("append", begin, end, cs.Len()); err != nil {
		return err
	}
	if other, ok := cs.(*Builder); ok {
		return b.appendBuilderRange(other, begin, end)
	}
	if err := b.ensureCapacity(b.count + end - begin); err != nil {
		return err
	}
	if err := b.putSequence(b.count, cs, begin, end); err != nil {
		return err
	}
	b.count += end - begin
	return nil
}

func (b *Builder) appendBuilderRange(other *Builder, begin, end int) error {
	n := end - begin
	if err := b.ensureCapacity(b.count + n); err != nil {
		return err
	}
	src := make([]byte, n<<other.coder)
	copy(src, other.value[begin<<other.coder:end<<other.coder])
	b.putBytes(b.count, src, other.coder)
	b.count += n
	return nil
}

// AppendBool appends "true" or "false".
func (b *Builder) AppendBool(v bool) error { return b.AppendString(FormatBool(v)) }

// AppendChar appends a single code unit.
func (b *Builder) AppendChar(c uint16) error {
	if err := b.ensureCapacity(b.count + 1); err != nil {
		return err
	}
	if b.coder == Latin1 && c > 0xFF {
		b.inflate(b.count)
	}
	b.putUnit(b.count, c)
	b.count++
	return nil
}

// AppendCodePoint appends cp as one code unit or a surrogate pair.
func (b *Builder) AppendCodePoint(cp rune) error {
	if cp < 0 || cp > utf8.MaxRune {
		return fmt.Errorf("append %#x: %w", cp, ErrInvalidCodePoint)
	}
	if cp < 0x10000 {
		return b.AppendChar(uint16(cp))
	}
	hi, lo := utf16.EncodeRune(cp)
	return b.AppendChars([]uint16{uint16(hi), uint16(lo)})
}

// AppendInt appends the decimal form of a 32-bit integer.
func (b *Builder) AppendInt(v int32) error {
	return b.AppendString(strconv.FormatInt(int64(v), 10))
}

// AppendLong appends the decimal form of a 64-bit integer.
func (b *Builder) AppendLong(v int64) error {
	return b.AppendString(strconv.FormatInt(v, 10))
}

// AppendFloat appends the canonical form of a 32-bit float.
func (b *Builder) AppendFloat(v float32) error { return b.AppendString(FormatFloat(v)) }

// AppendDouble appends the canonical form of a 64-bit float.
func (b *Builder) AppendDouble(v float64) error { return b.AppendString(FormatDouble(v)) }
