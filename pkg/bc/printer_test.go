package bc

import (
	"bytes"
	"testing"
)

func TestPrintFunction(t *testing.T) {
	fn := &Function{
		Name: "sample",
		Params: []Param{
			{Name: "a"},
			{Name: "b", Default: &DefaultValue{Target: Regular(2), Expr: `"hi"`}},
		},
		Body: Instrs(
			Str{Value: "x y"},
			JmpZ{Target: Regular(0)},
			LabelDef{L: Regular(0)},
			Switch{Base: -1, Targets: []Label{Regular(0), Regular(2)}},
			SSwitch{Cases: []SSwitchCase{
				{Key: "k", Target: Regular(0)},
				{Key: "", Target: Regular(2)},
			}},
			LabelDef{L: Regular(2)},
			FCall{Func: "f", Args: 2, AsyncEager: Regular(0)},
			FCall{Func: "g", Args: 0},
			LabelDef{L: Named("done")},
			RetC{},
		),
	}

	var out bytes.Buffer
	NewPrinter(&out).PrintFunction(fn)

	want := `.function sample
.param a
.param b default L2 "\"hi\""
  Str "x y"
  JmpZ L0
L0:
  Switch -1 L0 L2
  SSwitch "k":L0 *:L2
L2:
  FCall f 2 L0
  FCall g 0
@done:
  RetC
`
	if out.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", out.String(), want)
	}
}
