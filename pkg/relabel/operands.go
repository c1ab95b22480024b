// Label operand enumeration shared by the collect, rewrite and clone
// passes. Both functions must agree on which operands exist and in what
// order, or canonical ids drift between phases.
package relabel

import "github.com/fern-lang/fernc/pkg/bc"

// labelOperands returns the label references carried by in, in table order
// for multi-label instructions. Label definitions are not references and
// return nothing.
func labelOperands(in bc.Instruction) []bc.Label {
	switch i := in.(type) {
	case bc.Jmp:
		return []bc.Label{i.Target}
	case bc.JmpNS:
		return []bc.Label{i.Target}
	case bc.JmpZ:
		return []bc.Label{i.Target}
	case bc.JmpNZ:
		return []bc.Label{i.Target}
	case bc.IterInit:
		return []bc.Label{i.Target}
	case bc.IterNext:
		return []bc.Label{i.Target}
	case bc.MemoGet:
		return []bc.Label{i.Target}
	case bc.MemoGetEager:
		return []bc.Label{i.NoValue, i.Suspended}
	case bc.Switch:
		return i.Targets
	case bc.SSwitch:
		labels := make([]bc.Label, len(i.Cases))
		for j, c := range i.Cases {
			labels[j] = c.Target
		}
		return labels
	case bc.FCall:
		if i.AsyncEager != nil {
			return []bc.Label{i.AsyncEager}
		}
		return nil
	default:
		return nil
	}
}

// relabelInstruction rewrites every label operand of in through f,
// including a label definition's own label. Instructions without labels
// pass through unchanged.
func relabelInstruction(in bc.Instruction, f func(bc.Label) (bc.Label, error)) (bc.Instruction, error) {
	switch i := in.(type) {
	case bc.LabelDef:
		l, err := f(i.L)
		if err != nil {
			return in, err
		}
		i.L = l
		return i, nil
	case bc.Jmp:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.JmpNS:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.JmpZ:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.JmpNZ:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.IterInit:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.IterNext:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.MemoGet:
		l, err := f(i.Target)
		if err != nil {
			return in, err
		}
		i.Target = l
		return i, nil
	case bc.MemoGetEager:
		noValue, err := f(i.NoValue)
		if err != nil {
			return in, err
		}
		suspended, err := f(i.Suspended)
		if err != nil {
			return in, err
		}
		i.NoValue = noValue
		i.Suspended = suspended
		return i, nil
	case bc.Switch:
		for j, target := range i.Targets {
			l, err := f(target)
			if err != nil {
				return in, err
			}
			i.Targets[j] = l
		}
		return i, nil
	case bc.SSwitch:
		for j, c := range i.Cases {
			l, err := f(c.Target)
			if err != nil {
				return in, err
			}
			i.Cases[j].Target = l
		}
		return i, nil
	case bc.FCall:
		if i.AsyncEager == nil {
			return i, nil
		}
		l, err := f(i.AsyncEager)
		if err != nil {
			return in, err
		}
		i.AsyncEager = l
		return i, nil
	default:
		return in, nil
	}
}
