// Package asm parses textual bytecode listings (.fasm) into bc form.
// The format is the one bc.Printer emits, so dumps round-trip back through
// this parser. Listings exist for tooling and tests; the compiler proper
// builds bc values directly.
package asm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fern-lang/fernc/pkg/bc"
)

// ParseProgram parses a listing containing one or more .function blocks.
func ParseProgram(src string) ([]*bc.Function, error) {
	p := &parser{lines: strings.Split(src, "\n")}
	return p.parseProgram()
}

// ParseFunction parses a listing containing exactly one function.
func ParseFunction(src string) (*bc.Function, error) {
	fns, err := ParseProgram(src)
	if err != nil {
		return nil, err
	}
	if len(fns) != 1 {
		return nil, fmt.Errorf("expected 1 function, found %d", len(fns))
	}
	return fns[0], nil
}

type parser struct {
	lines []string
	pos   int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("line %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseProgram() ([]*bc.Function, error) {
	var fns []*bc.Function
	var fn *bc.Function
	for p.pos < len(p.lines) {
		p.pos++
		line := strings.TrimSpace(p.lines[p.pos-1])
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ".function") {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, p.errf(".function expects a name")
			}
			fn = &bc.Function{Name: fields[1], Body: bc.Instrs()}
			fns = append(fns, fn)
			continue
		}
		if fn == nil {
			return nil, p.errf("%q before .function", line)
		}
		if strings.HasPrefix(line, ".param") {
			param, err := p.parseParam(line)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
			continue
		}
		if name, ok := strings.CutSuffix(line, ":"); ok && !strings.Contains(name, " ") {
			l, err := p.parseLabel(name)
			if err != nil {
				return nil, err
			}
			fn.Body.Append(bc.LabelDef{L: l})
			continue
		}
		in, err := p.parseInstruction(line)
		if err != nil {
			return nil, err
		}
		fn.Body.Append(in)
	}
	return fns, nil
}

// parseParam parses ".param name [default <label> ["expr"]]".
func (p *parser) parseParam(line string) (bc.Param, error) {
	fields, err := p.splitFields(line)
	if err != nil {
		return bc.Param{}, err
	}
	switch {
	case len(fields) == 2:
		return bc.Param{Name: fields[1]}, nil
	case (len(fields) == 4 || len(fields) == 5) && fields[2] == "default":
		l, err := p.parseLabel(fields[3])
		if err != nil {
			return bc.Param{}, err
		}
		dv := &bc.DefaultValue{Target: l}
		if len(fields) == 5 {
			expr, err := strconv.Unquote(fields[4])
			if err != nil {
				return bc.Param{}, p.errf("bad default expr %s", fields[4])
			}
			dv.Expr = expr
		}
		return bc.Param{Name: fields[1], Default: dv}, nil
	default:
		return bc.Param{}, p.errf("malformed .param")
	}
}

// parseLabel parses "L<n>" as Regular and "@name" as Named.
func (p *parser) parseLabel(s string) (bc.Label, error) {
	if name, ok := strings.CutPrefix(s, "@"); ok && name != "" {
		return bc.Named(name), nil
	}
	if digits, ok := strings.CutPrefix(s, "L"); ok {
		if id, err := strconv.Atoi(digits); err == nil && id >= 0 {
			return bc.Regular(id), nil
		}
	}
	return nil, p.errf("bad label %q", s)
}

func (p *parser) parseInstruction(line string) (bc.Instruction, error) {
	fields, err := p.splitFields(line)
	if err != nil {
		return nil, err
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "Nop":
		return bc.Nop{}, p.expectArgs(name, args, 0)
	case "Pop":
		return bc.Pop{}, p.expectArgs(name, args, 0)
	case "Dup":
		return bc.Dup{}, p.expectArgs(name, args, 0)
	case "Ret":
		return bc.Ret{}, p.expectArgs(name, args, 0)
	case "RetC":
		return bc.RetC{}, p.expectArgs(name, args, 0)
	case "Int":
		if err := p.expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, p.errf("Int expects an integer, got %q", args[0])
		}
		return bc.Int{Value: v}, nil
	case "Str":
		if err := p.expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		v, err := strconv.Unquote(args[0])
		if err != nil {
			return nil, p.errf("Str expects a quoted string, got %s", args[0])
		}
		return bc.Str{Value: v}, nil
	case "Jmp", "JmpNS", "JmpZ", "JmpNZ", "MemoGet":
		if err := p.expectArgs(name, args, 1); err != nil {
			return nil, err
		}
		l, err := p.parseLabel(args[0])
		if err != nil {
			return nil, err
		}
		switch name {
		case "Jmp":
			return bc.Jmp{Target: l}, nil
		case "JmpNS":
			return bc.JmpNS{Target: l}, nil
		case "JmpZ":
			return bc.JmpZ{Target: l}, nil
		case "JmpNZ":
			return bc.JmpNZ{Target: l}, nil
		default:
			return bc.MemoGet{Target: l}, nil
		}
	case "MemoGetEager":
		if err := p.expectArgs(name, args, 2); err != nil {
			return nil, err
		}
		noValue, err := p.parseLabel(args[0])
		if err != nil {
			return nil, err
		}
		suspended, err := p.parseLabel(args[1])
		if err != nil {
			return nil, err
		}
		return bc.MemoGetEager{NoValue: noValue, Suspended: suspended}, nil
	case "IterInit", "IterNext":
		if err := p.expectArgs(name, args, 2); err != nil {
			return nil, err
		}
		iter, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, p.errf("%s expects an iterator id, got %q", name, args[0])
		}
		l, err := p.parseLabel(args[1])
		if err != nil {
			return nil, err
		}
		if name == "IterInit" {
			return bc.IterInit{Iter: iter, Target: l}, nil
		}
		return bc.IterNext{Iter: iter, Target: l}, nil
	case "Switch":
		if len(args) < 2 {
			return nil, p.errf("Switch expects a base and at least one target")
		}
		base, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, p.errf("Switch expects an integer base, got %q", args[0])
		}
		targets := make([]bc.Label, len(args)-1)
		for i, arg := range args[1:] {
			if targets[i], err = p.parseLabel(arg); err != nil {
				return nil, err
			}
		}
		return bc.Switch{Base: base, Targets: targets}, nil
	case "SSwitch":
		if len(args) == 0 {
			return nil, p.errf("SSwitch expects at least one case")
		}
		cases := make([]bc.SSwitchCase, len(args))
		for i, arg := range args {
			if cases[i], err = p.parseSSwitchCase(arg); err != nil {
				return nil, err
			}
		}
		return bc.SSwitch{Cases: cases}, nil
	case "FCall":
		if len(args) != 2 && len(args) != 3 {
			return nil, p.errf("FCall expects a callee, an arg count and an optional label")
		}
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, p.errf("FCall expects an arg count, got %q", args[1])
		}
		fc := bc.FCall{Func: args[0], Args: count}
		if len(args) == 3 {
			if fc.AsyncEager, err = p.parseLabel(args[2]); err != nil {
				return nil, err
			}
		}
		return fc, nil
	default:
		return nil, p.errf("unknown instruction %q", name)
	}
}

// parseSSwitchCase parses `"key":L<n>` or the default arm `*:L<n>`.
func (p *parser) parseSSwitchCase(s string) (bc.SSwitchCase, error) {
	var key, rest string
	if after, ok := strings.CutPrefix(s, "*:"); ok {
		rest = after
	} else if strings.HasPrefix(s, "\"") {
		end := closingQuote(s)
		if end < 0 || end+1 >= len(s) || s[end+1] != ':' {
			return bc.SSwitchCase{}, p.errf("bad SSwitch case %s", s)
		}
		var err error
		if key, err = strconv.Unquote(s[:end+1]); err != nil {
			return bc.SSwitchCase{}, p.errf("bad SSwitch key in %s", s)
		}
		rest = s[end+2:]
	} else {
		return bc.SSwitchCase{}, p.errf("bad SSwitch case %q", s)
	}
	l, err := p.parseLabel(rest)
	if err != nil {
		return bc.SSwitchCase{}, err
	}
	return bc.SSwitchCase{Key: key, Target: l}, nil
}

func (p *parser) expectArgs(name string, args []string, n int) error {
	if len(args) != n {
		return p.errf("%s expects %d operand(s), got %d", name, n, len(args))
	}
	return nil
}

// splitFields splits a line on whitespace, keeping double-quoted spans
// (with escapes) inside a single field.
func (p *parser) splitFields(line string) ([]string, error) {
	var fields []string
	i := 0
	for i < len(line) {
		if line[i] == ' ' || line[i] == '\t' {
			i++
			continue
		}
		start := i
		for i < len(line) && line[i] != ' ' && line[i] != '\t' {
			if line[i] == '"' {
				end := closingQuote(line[i:])
				if end < 0 {
					return nil, p.errf("unterminated string")
				}
				i += end + 1
				continue
			}
			i++
		}
		fields = append(fields, line[start:i])
	}
	return fields, nil
}

// closingQuote returns the index of the quote closing the one at s[0],
// honoring backslash escapes, or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
