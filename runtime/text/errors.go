package text

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned when an index or range falls outside the
	// current length of a sequence or array.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrOutOfMemory is returned when growing a buffer would exceed its ceiling.
	ErrOutOfMemory = errors.New("out of memory")

	// ErrNegativeCapacity is returned when a buffer is created with a negative
	// initial capacity.
	ErrNegativeCapacity = errors.New("negative capacity")

	// ErrInvalidCodePoint is returned when appending a value that is not a
	// Unicode code point.
	ErrInvalidCodePoint = errors.New("invalid code point")
)

// IndexError describes a rejected index or range argument.
type IndexError struct {
	Op     string
	Index  int
	Begin  int
	End    int
	Length int
	Range  bool
}

func (e *IndexError) Error() string {
	if e.Range {
		return fmt.Sprintf("%s: begin %d, end %d, length %d: %v", e.Op, e.Begin, e.End, e.Length, ErrIndexOutOfRange)
	}
	return fmt.Sprintf("%s: index %d, length %d: %v", e.Op, e.Index, e.Length, ErrIndexOutOfRange)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// CapacityError reports a growth request above the buffer ceiling.
type CapacityError struct {
	Requested int
	Limit     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("required capacity %d exceeds limit %d: %v", e.Requested, e.Limit, ErrOutOfMemory)
}

func (e *CapacityError) Unwrap() error { return ErrOutOfMemory }

func checkIndex(op string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Op: op, Index: index, Length: length}
	}
	return nil
}

func checkOffset(op string, offset, length int) error {
	if offset < 0 || offset > length {
		return &IndexError{Op: op, Index: offset, Length: length}
	}
	return nil
}

// checkRange validates 0 <= begin <= end <= length.
func checkRange(op string, begin, end, length int) error {
	if begin < 0 || begin > end || end > length {
		return &IndexError{Op: op, Begin: begin, End: end, Length: length, Range: true}
	}
	return nil
}

// checkFromSize validates a (offset, count) pair against an array length.
func checkFromSize(op string, offset, count, length int) error {
	if offset < 0 || count < 0 || offset > length-count {
		return &IndexError{Op: op, Begin: offset, End: offset + count, Length: length, Range: true}
	}
	return nil
}
