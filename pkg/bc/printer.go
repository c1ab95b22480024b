// Textual disassembly for bytecode functions.
// The format round-trips through pkg/asm, so dumps double as test inputs.
package bc

import (
	"fmt"
	"io"
	"strconv"
)

// Printer outputs bytecode functions in a readable format
type Printer struct {
	w io.Writer
}

// NewPrinter creates a new bytecode printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintFunction prints a function as a .fasm listing
func (p *Printer) PrintFunction(fn *Function) {
	fmt.Fprintf(p.w, ".function %s\n", fn.Name)
	for _, param := range fn.Params {
		if param.Default == nil {
			fmt.Fprintf(p.w, ".param %s\n", param.Name)
		} else if param.Default.Expr == "" {
			fmt.Fprintf(p.w, ".param %s default %s\n", param.Name, param.Default.Target)
		} else {
			fmt.Fprintf(p.w, ".param %s default %s %s\n",
				param.Name, param.Default.Target, strconv.Quote(param.Default.Expr))
		}
	}
	fn.Body.Each(func(in Instruction) error {
		p.printInstruction(in)
		return nil
	})
}

func (p *Printer) printInstruction(in Instruction) {
	switch i := in.(type) {
	case LabelDef:
		// Label definitions are printed without indentation
		fmt.Fprintf(p.w, "%s:\n", i.L)
	case Nop:
		fmt.Fprintln(p.w, "  Nop")
	case Int:
		fmt.Fprintf(p.w, "  Int %d\n", i.Value)
	case Str:
		fmt.Fprintf(p.w, "  Str %s\n", strconv.Quote(i.Value))
	case Pop:
		fmt.Fprintln(p.w, "  Pop")
	case Dup:
		fmt.Fprintln(p.w, "  Dup")
	case Ret:
		fmt.Fprintln(p.w, "  Ret")
	case RetC:
		fmt.Fprintln(p.w, "  RetC")
	case Jmp:
		fmt.Fprintf(p.w, "  Jmp %s\n", i.Target)
	case JmpNS:
		fmt.Fprintf(p.w, "  JmpNS %s\n", i.Target)
	case JmpZ:
		fmt.Fprintf(p.w, "  JmpZ %s\n", i.Target)
	case JmpNZ:
		fmt.Fprintf(p.w, "  JmpNZ %s\n", i.Target)
	case IterInit:
		fmt.Fprintf(p.w, "  IterInit %d %s\n", i.Iter, i.Target)
	case IterNext:
		fmt.Fprintf(p.w, "  IterNext %d %s\n", i.Iter, i.Target)
	case MemoGet:
		fmt.Fprintf(p.w, "  MemoGet %s\n", i.Target)
	case MemoGetEager:
		fmt.Fprintf(p.w, "  MemoGetEager %s %s\n", i.NoValue, i.Suspended)
	case Switch:
		fmt.Fprintf(p.w, "  Switch %d", i.Base)
		for _, target := range i.Targets {
			fmt.Fprintf(p.w, " %s", target)
		}
		fmt.Fprintln(p.w)
	case SSwitch:
		fmt.Fprint(p.w, "  SSwitch")
		for _, c := range i.Cases {
			if c.Key == "" {
				fmt.Fprintf(p.w, " *:%s", c.Target)
			} else {
				fmt.Fprintf(p.w, " %s:%s", strconv.Quote(c.Key), c.Target)
			}
		}
		fmt.Fprintln(p.w)
	case FCall:
		if i.AsyncEager == nil {
			fmt.Fprintf(p.w, "  FCall %s %d\n", i.Func, i.Args)
		} else {
			fmt.Fprintf(p.w, "  FCall %s %d %s\n", i.Func, i.Args, i.AsyncEager)
		}
	default:
		fmt.Fprintf(p.w, "  ; unknown instruction %T\n", in)
	}
}
