package text

import "sync"

// SyncBuilder is a Builder whose every operation, readers included, runs
// under a single mutex. Growth and promotion happen inside the critical
// section and are never observable half-done.
type SyncBuilder struct {
	mu sync.Mutex
	b  Builder
}

// NewSync returns an empty synchronized builder with the default capacity.
func NewSync() *SyncBuilder {
	return &SyncBuilder{b: *New()}
}

// NewSyncWithConfig returns an empty synchronized builder configured by cfg.
func NewSyncWithConfig(cfg Config) (*SyncBuilder, error) {
	b, err := NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &SyncBuilder{b: *b}, nil
}

func (s *SyncBuilder) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Len()
}

func (s *SyncBuilder) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Capacity()
}

func (s *SyncBuilder) Coder() Coder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Coder()
}

func (s *SyncBuilder) CharAt(index int) (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.CharAt(index)
}

func (s *SyncBuilder) CodePointAt(index int) (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.CodePointAt(index)
}

func (s *SyncBuilder) CodePointBefore(index int) (rune, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.CodePointBefore(index)
}

func (s *SyncBuilder) CodePointCount(begin, end int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.CodePointCount(begin, end)
}

func (s *SyncBuilder) GetChars(srcBegin, srcEnd int, dst []uint16, dstBegin int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.GetChars(srcBegin, srcEnd, dst, dstBegin)
}

func (s *SyncBuilder) EnsureCapacity(min int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.EnsureCapacity(min)
}

func (s *SyncBuilder) TrimToSize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.TrimToSize()
}

func (s *SyncBuilder) SetLength(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.SetLength(n)
}

func (s *SyncBuilder) SetCharAt(index int, c uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.SetCharAt(index, c)
}

// Append appends v. Appending a SyncBuilder to itself is allowed.
func (s *SyncBuilder) Append(v any) error {
	if other, ok := v.(*SyncBuilder); ok && other != nil {
		v = other.UTF16()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Append(v)
}

func (s *SyncBuilder) AppendString(str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AppendString(str)
}

func (s *SyncBuilder) AppendChars(chars []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AppendChars(chars)
}

// AppendSequence appends cs[begin:end). cs may be s itself.
func (s *SyncBuilder) AppendSequence(cs CharSequence, begin, end int) error {
	cs = unshared(cs)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AppendSequence(cs, begin, end)
}

func (s *SyncBuilder) AppendChar(c uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AppendChar(c)
}

func (s *SyncBuilder) AppendCodePoint(cp rune) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.AppendCodePoint(cp)
}

func (s *SyncBuilder) Insert(offset int, v any) error {
	if other, ok := v.(*SyncBuilder); ok && other != nil {
		v = other.UTF16()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Insert(offset, v)
}

func (s *SyncBuilder) InsertString(offset int, str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.InsertString(offset, str)
}

func (s *SyncBuilder) InsertChars(index int, chars []uint16, offset, length int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.InsertChars(index, chars, offset, length)
}

// InsertSequence inserts cs[begin:end) at dstOffset. cs may be s itself.
func (s *SyncBuilder) InsertSequence(dstOffset int, cs CharSequence, begin, end int) error {
	cs = unshared(cs)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.InsertSequence(dstOffset, cs, begin, end)
}

func (s *SyncBuilder) Delete(begin, end int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Delete(begin, end)
}

func (s *SyncBuilder) DeleteCharAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.DeleteCharAt(index)
}

func (s *SyncBuilder) Replace(begin, end int, str string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Replace(begin, end, str)
}

func (s *SyncBuilder) Reverse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.Reverse()
}

func (s *SyncBuilder) IndexOf(str string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.IndexOf(str)
}

func (s *SyncBuilder) LastIndexOf(str string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.LastIndexOf(str)
}

func (s *SyncBuilder) IndexOfFrom(str string, from int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.IndexOfFrom(str, from)
}

func (s *SyncBuilder) LastIndexOfFrom(str string, from int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.LastIndexOfFrom(str, from)
}

func (s *SyncBuilder) Substring(begin int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Substring(begin)
}

func (s *SyncBuilder) SubSequence(begin, end int) (Units, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.SubSequence(begin, end)
}

func (s *SyncBuilder) SubstringRange(begin, end int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.SubstringRange(begin, end)
}

// UTF16 returns a copy of the content as code units.
func (s *SyncBuilder) UTF16() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.UTF16()
}

func (s *SyncBuilder) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// unshared snapshots a synchronized sequence so it is read under its own lock
// and never while another builder's lock is held.
func unshared(cs CharSequence) CharSequence {
	if other, ok := cs.(*SyncBuilder); ok && other != nil {
		return Units(other.UTF16())
	}
	return cs
}
