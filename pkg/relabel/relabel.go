// Package relabel canonicalizes label numbering in bytecode bodies.
// Referenced labels are renumbered densely in first-use order, unreferenced
// label definitions are deleted, and every reference (jumps, dispatch
// tables, iterator and memo instructions, parameter defaults) is rewritten
// to the canonical id. This runs once per function, immediately before
// serialization; downstream stages treat the result as final.
package relabel

import (
	"errors"
	"fmt"

	"github.com/fern-lang/fernc/pkg/bc"
)

// Every failure here is an internal invariant violation, never bad user
// input. Callers abort compilation of the current function on any of them.
var (
	// ErrUnresolvedLabel reports a label still carrying a textual identity;
	// the numbering phase should have run before this pass.
	ErrUnresolvedLabel = errors.New("unresolved label")
	// ErrDuplicateLabel reports two definitions sharing one identity.
	ErrDuplicateLabel = errors.New("duplicate label definition")
	// ErrUndefinedLabel reports a reference to a label never defined in
	// this body.
	ErrUndefinedLabel = errors.New("undefined label")
	// ErrInconsistentRewrite reports a definition position with no
	// canonical id during rewriting, which the collect phase should have
	// made impossible.
	ErrInconsistentRewrite = errors.New("inconsistent relabel state")
)

// labelOffsets maps each label's identity to the position it denotes: the
// count of non-label instructions preceding its definition. Definitions
// occupy no position themselves.
func labelOffsets(body *bc.InstrSeq) (map[bc.LabelID]int, error) {
	defs := make(map[bc.LabelID]int)
	pos := 0
	err := body.Each(func(in bc.Instruction) error {
		ld, ok := in.(bc.LabelDef)
		if !ok {
			pos++
			return nil
		}
		id, ok := bc.RegularID(ld.L)
		if !ok {
			return fmt.Errorf("definition %s: %w", ld.L, ErrUnresolvedLabel)
		}
		if _, seen := defs[id]; seen {
			return fmt.Errorf("L%d: %w", id, ErrDuplicateLabel)
		}
		defs[id] = pos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// refState accumulates the collect phase: which identities are live, and
// the dense canonical id assigned to each referenced definition position.
type refState struct {
	defs map[bc.LabelID]int
	used map[bc.LabelID]bool
	refs map[int]int // definition position -> canonical id
	next int
}

func (st *refState) processRef(l bc.Label) error {
	id, ok := bc.RegularID(l)
	if !ok {
		return fmt.Errorf("reference %s: %w", l, ErrUnresolvedLabel)
	}
	off, ok := st.defs[id]
	if !ok {
		return fmt.Errorf("L%d: %w", id, ErrUndefinedLabel)
	}
	if _, seen := st.refs[off]; !seen {
		st.refs[off] = st.next
		st.next++
		st.used[id] = true
	}
	return nil
}

// collectRefs walks the body left to right, then parameter defaults in
// declaration order, assigning canonical ids in first-use order. Body order
// dominates numbering; a default's target still gets an id even when the
// body never references it.
func collectRefs(defs map[bc.LabelID]int, params []bc.Param, body *bc.InstrSeq) (map[bc.LabelID]bool, map[int]int, error) {
	st := &refState{
		defs: defs,
		used: make(map[bc.LabelID]bool),
		refs: make(map[int]int),
	}
	err := body.Each(func(in bc.Instruction) error {
		for _, l := range labelOperands(in) {
			if err := st.processRef(l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, param := range params {
		if param.Default != nil {
			if err := st.processRef(param.Default.Target); err != nil {
				return nil, nil, err
			}
		}
	}
	return st.used, st.refs, nil
}

// rewrite applies the canonical numbering in place: used definitions are
// renumbered, unused ones deleted, and every reference replaced by its
// canonical id. Deleting definitions never shifts later positions because
// positions were captured before any mutation.
func rewrite(defs map[bc.LabelID]int, used map[bc.LabelID]bool, refs map[int]int, params []bc.Param, body *bc.InstrSeq) error {
	canonical := func(l bc.Label) (bc.Label, error) {
		id, ok := bc.RegularID(l)
		if !ok {
			return nil, fmt.Errorf("reference %s: %w", l, ErrUnresolvedLabel)
		}
		off, ok := defs[id]
		if !ok {
			return nil, fmt.Errorf("L%d: %w", id, ErrUndefinedLabel)
		}
		c, ok := refs[off]
		if !ok {
			return nil, fmt.Errorf("L%d: %w", id, ErrInconsistentRewrite)
		}
		return bc.Regular(c), nil
	}

	for i := range params {
		if d := params[i].Default; d != nil {
			target, err := canonical(d.Target)
			if err != nil {
				return err
			}
			d.Target = target
		}
	}

	return body.FilterMap(func(in bc.Instruction) (bc.Instruction, bool, error) {
		ld, ok := in.(bc.LabelDef)
		if !ok {
			out, err := relabelInstruction(in, canonical)
			return out, true, err
		}
		id, ok := bc.RegularID(ld.L)
		if !ok {
			return nil, false, fmt.Errorf("definition %s: %w", ld.L, ErrUnresolvedLabel)
		}
		if !used[id] {
			return nil, false, nil
		}
		c, ok := refs[defs[id]]
		if !ok {
			return nil, false, fmt.Errorf("L%d: %w", id, ErrInconsistentRewrite)
		}
		return bc.LabelDef{L: bc.Regular(c)}, true, nil
	})
}

// Function renumbers the labels of params and body in place to dense,
// first-use-ordered canonical form and deletes dead label definitions.
// Rerunning it on already-canonical input is a no-op.
func Function(params []bc.Param, body *bc.InstrSeq) error {
	defs, err := labelOffsets(body)
	if err != nil {
		return err
	}
	used, refs, err := collectRefs(defs, params, body)
	if err != nil {
		return err
	}
	return rewrite(defs, used, refs, params, body)
}
