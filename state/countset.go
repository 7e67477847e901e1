package state

// Countset is an order-preserving deduplicating counter for repeated message
// strings. Entries keep the index assigned on first insertion forever; there
// is no removal or eviction. Warnings, errors and configuration facts each
// get their own instance so the end-of-run report can say "N distinct
// messages, M total occurrences" with stable ordering.
type Countset struct {
	counts map[string]int
	order  []string
	total  int
}

// NewCountset returns an empty countset.
func NewCountset() *Countset {
	return &Countset{counts: make(map[string]int)}
}

// Add records one occurrence of text. New text is assigned the next
// sequential first-seen index; repeated text only bumps its count.
func (c *Countset) Add(text string) {
	if _, seen := c.counts[text]; !seen {
		c.order = append(c.order, text)
	}
	c.counts[text]++
	c.total++
}

// Count returns the number of times text was added, zero if never.
func (c *Countset) Count(text string) int {
	return c.counts[text]
}

// Index returns the first-seen index of text and whether it is present.
func (c *Countset) Index(text string) (int, bool) {
	for i, t := range c.order {
		if t == text {
			return i, true
		}
	}
	return 0, false
}

// Len is the number of distinct messages.
func (c *Countset) Len() int {
	return len(c.order)
}

// Total is the number of Add calls.
func (c *Countset) Total() int {
	return c.total
}

// Each visits every distinct message in first-seen order.
func (c *Countset) Each(fn func(text string, count int)) {
	for _, t := range c.order {
		fn(t, c.counts[t])
	}
}
