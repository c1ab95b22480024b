// Instruction sequences for bytecode emission.
// Emitters build bodies from nested fragments; InstrSeq keeps the nesting
// so fragments can be concatenated without copying, while traversal sees one
// flat ordered stream. All traversal order is centralized here.
package bc

// InstrSeq is an ordered instruction stream assembled from leaf slices and
// concatenated sub-sequences.
type InstrSeq struct {
	instrs []Instruction // leaf elements; empty for concat nodes
	seqs   []*InstrSeq   // concatenated sub-sequences, in order
}

// Instrs creates a leaf sequence from instructions.
func Instrs(instrs ...Instruction) *InstrSeq {
	return &InstrSeq{instrs: instrs}
}

// Concat creates a sequence from sub-sequences, in order.
func Concat(seqs ...*InstrSeq) *InstrSeq {
	return &InstrSeq{seqs: seqs}
}

// Append adds an instruction to the end of a leaf sequence.
func (s *InstrSeq) Append(in Instruction) {
	s.instrs = append(s.instrs, in)
}

// Each calls f on every instruction in order, stopping at the first error.
func (s *InstrSeq) Each(f func(Instruction) error) error {
	for _, in := range s.instrs {
		if err := f(in); err != nil {
			return err
		}
	}
	for _, sub := range s.seqs {
		if err := sub.Each(f); err != nil {
			return err
		}
	}
	return nil
}

// Map replaces every instruction in place with f's result, stopping at the
// first error.
func (s *InstrSeq) Map(f func(Instruction) (Instruction, error)) error {
	for i, in := range s.instrs {
		out, err := f(in)
		if err != nil {
			return err
		}
		s.instrs[i] = out
	}
	for _, sub := range s.seqs {
		if err := sub.Map(f); err != nil {
			return err
		}
	}
	return nil
}

// FilterMap replaces or deletes every instruction in place: f returns the
// replacement and whether to keep the element. Stops at the first error.
func (s *InstrSeq) FilterMap(f func(Instruction) (Instruction, bool, error)) error {
	kept := s.instrs[:0]
	for _, in := range s.instrs {
		out, keep, err := f(in)
		if err != nil {
			return err
		}
		if keep {
			kept = append(kept, out)
		}
	}
	s.instrs = kept
	for _, sub := range s.seqs {
		if err := sub.FilterMap(f); err != nil {
			return err
		}
	}
	return nil
}

// Flatten returns the instructions as one flat slice, in traversal order.
func (s *InstrSeq) Flatten() []Instruction {
	var out []Instruction
	s.Each(func(in Instruction) error {
		out = append(out, in)
		return nil
	})
	return out
}

// Clone returns a structurally independent deep copy. Instructions are
// values; only the label tables of Switch and SSwitch need fresh backing.
func (s *InstrSeq) Clone() *InstrSeq {
	out := &InstrSeq{}
	if s.instrs != nil {
		out.instrs = make([]Instruction, len(s.instrs))
		for i, in := range s.instrs {
			out.instrs[i] = cloneInstruction(in)
		}
	}
	if s.seqs != nil {
		out.seqs = make([]*InstrSeq, len(s.seqs))
		for i, sub := range s.seqs {
			out.seqs[i] = sub.Clone()
		}
	}
	return out
}

func cloneInstruction(in Instruction) Instruction {
	switch i := in.(type) {
	case Switch:
		targets := make([]Label, len(i.Targets))
		copy(targets, i.Targets)
		return Switch{Base: i.Base, Targets: targets}
	case SSwitch:
		cases := make([]SSwitchCase, len(i.Cases))
		copy(cases, i.Cases)
		return SSwitch{Cases: cases}
	default:
		return in
	}
}
