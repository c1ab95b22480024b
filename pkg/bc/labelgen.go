package bc

import "fmt"

func (r Regular) String() string {
	return fmt.Sprintf("L%d", LabelID(r))
}

func (n Named) String() string {
	return "@" + string(n)
}

// LabelGen issues fresh Regular label identities. One generator serves a
// whole compilation unit; NextRegular must be its sole mutator so fresh
// identities never collide.
type LabelGen struct {
	next LabelID
}

// NewLabelGen creates a generator whose first identity is start. Callers
// resuming after an earlier numbering phase seed it past the ids in use.
func NewLabelGen(start LabelID) *LabelGen {
	return &LabelGen{next: start}
}

// NextRegular returns a fresh Regular label.
func (g *LabelGen) NextRegular() Label {
	l := Regular(g.next)
	g.next++
	return l
}

// Reset rewinds the generator for a new compilation unit.
func (g *LabelGen) Reset() {
	g.next = 0
}
