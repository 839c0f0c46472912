package diag

import "sort"

// Bag collects the diagnostics of one generation job. A positive limit
// caps how many are kept; the rest are only counted.
type Bag struct {
	items   []Diagnostic
	limit   int
	dropped int
}

// NewBag returns a bag keeping at most limit diagnostics, or all of them
// when limit <= 0.
func NewBag(limit int) *Bag {
	return &Bag{limit: limit}
}

// Add stores d and reports whether it fit under the limit.
func (b *Bag) Add(d Diagnostic) bool {
	if b.limit > 0 && len(b.items) >= b.limit {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped is the number of diagnostics refused by Add.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored diagnostics. The slice is shared with the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

// Worst returns the highest severity in the bag and false when it is empty.
func (b *Bag) Worst() (Severity, bool) {
	if len(b.items) == 0 {
		return SevInfo, false
	}
	worst := SevInfo
	for _, d := range b.items {
		worst = max(worst, d.Severity)
	}
	return worst, true
}

// AtLeast returns a copy of the diagnostics whose severity is sev or higher.
func (b *Bag) AtLeast(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Severity >= sev {
			out = append(out, d)
		}
	}
	return out
}

// Sort groups diagnostics by item in emission order; within an item the
// most severe come first.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		x, y := &b.items[i], &b.items[j]
		switch {
		case x.Subject.Item != y.Subject.Item:
			return x.Subject.Item < y.Subject.Item
		case x.Severity != y.Severity:
			return x.Severity > y.Severity
		case x.Code != y.Code:
			return x.Code < y.Code
		}
		return x.Message < y.Message
	})
}
