// Fresh-label cloning for bytecode blocks.
// A shared fragment (a finally body, a default-value initializer) emitted at
// several sites must not share jump targets between copies, or the copies
// alias each other's control flow.
package relabel

import "github.com/fern-lang/fernc/pkg/bc"

// CloneWithFreshLabels returns an independent copy of block in which every
// label defined inside the block carries a fresh Regular identity from gen,
// with all in-block references renamed to match. References to labels
// defined outside the block are left unchanged, so a sub-block may exit via
// labels owned by an enclosing scope. The original block is not modified.
// Named labels become Regular in the copy; fresh identities are always
// numeric.
func CloneWithFreshLabels(gen *bc.LabelGen, block *bc.InstrSeq) (*bc.InstrSeq, error) {
	// First scan: one fresh identity per definition, keyed by flavor. The
	// two namespaces are disjoint and must never be conflated.
	regular := make(map[bc.LabelID]bc.Label)
	named := make(map[string]bc.Label)
	block.Each(func(in bc.Instruction) error {
		ld, ok := in.(bc.LabelDef)
		if !ok {
			return nil
		}
		switch l := ld.L.(type) {
		case bc.Regular:
			regular[bc.LabelID(l)] = gen.NextRegular()
		case bc.Named:
			named[string(l)] = gen.NextRegular()
		}
		return nil
	})

	out := block.Clone()
	if len(regular) == 0 && len(named) == 0 {
		// No definitions, nothing can alias; no generator ids consumed.
		return out, nil
	}

	fresh := func(l bc.Label) (bc.Label, error) {
		switch o := l.(type) {
		case bc.Regular:
			if nl, ok := regular[bc.LabelID(o)]; ok {
				return nl, nil
			}
		case bc.Named:
			if nl, ok := named[string(o)]; ok {
				return nl, nil
			}
		}
		// Defined outside this block; owned by the enclosing scope.
		return l, nil
	}
	err := out.Map(func(in bc.Instruction) (bc.Instruction, error) {
		return relabelInstruction(in, fresh)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
