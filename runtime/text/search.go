package text

// IndexOf returns the index of the first occurrence of s, or -1.
func (b *Builder) IndexOf(s string) int { return b.IndexOfFrom(s, 0) }

// IndexOfFrom returns the index of the first occurrence of s at or after
// from, or -1. A negative from searches the whole sequence.
func (b *Builder) IndexOfFrom(s string, from int) int {
	target := UnitsOf(s)
	if from >= b.count {
		if len(target) == 0 {
			return b.count
		}
		return -1
	}
	if from < 0 {
		from = 0
	}
	if len(target) == 0 {
		return from
	}
	last := b.count - len(target)
	for i := from; i <= last; i++ {
		if b.matchesAt(i, target) {
			return i
		}
	}
	return -1
}

// LastIndexOf returns the index of the last occurrence of s, or -1. An empty
// s matches at Len.
func (b *Builder) LastIndexOf(s string) int { return b.LastIndexOfFrom(s, b.count) }

// LastIndexOfFrom returns the index of the last occurrence of s that starts
// at or before from, or -1.
func (b *Builder) LastIndexOfFrom(s string, from int) int {
	target := UnitsOf(s)
	right := b.count - len(target)
	if from > right {
		from = right
	}
	if from < 0 {
		return -1
	}
	if len(target) == 0 {
		return from
	}
	for i := from; i >= 0; i-- {
		if b.matchesAt(i, target) {
			return i
		}
	}
	return -1
}

func (b *Builder) matchesAt(i int, target Units) bool {
	for k, c := range target {
		if b.unit(i+k) != c {
			return false
		}
	}
	return true
}
