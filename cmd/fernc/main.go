package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fern-lang/fernc/pkg/asm"
	"github.com/fern-lang/fernc/pkg/bc"
	"github.com/fern-lang/fernc/pkg/relabel"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// Debug flags for dumping intermediate forms
var (
	dRaw   bool
	dFresh bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fernc [file]",
		Short: "fernc is the fern bytecode backend driver",
		Long: `fernc drives the fern bytecode backend passes over .fasm
listings. By default it canonicalizes label numbering in every
function and prints the result; debug flags dump other forms.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				cmd.Help()
				return nil
			}
			return compile(args[0], out, errOut)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dRaw, "draw", false, "dump the parsed listing without relabeling")
	rootCmd.Flags().BoolVar(&dFresh, "dfresh", false, "dump a fresh-label clone of each function body")

	return rootCmd
}

func compile(filename string, out, errOut io.Writer) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("fernc: %w", err)
	}
	fns, err := asm.ParseProgram(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	printer := bc.NewPrinter(out)

	if dRaw {
		printFunctions(printer, out, fns)
		return nil
	}

	if dFresh {
		gen := bc.NewLabelGen(nextFreeLabel(fns))
		for _, fn := range fns {
			clone, err := relabel.CloneWithFreshLabels(gen, fn.Body)
			if err != nil {
				fmt.Fprintf(errOut, "fernc: %s: %v\n", fn.Name, err)
				return err
			}
			fn.Body = clone
		}
		printFunctions(printer, out, fns)
		return nil
	}

	for _, fn := range fns {
		if err := relabel.Function(fn.Params, fn.Body); err != nil {
			fmt.Fprintf(errOut, "fernc: %s: %v\n", fn.Name, err)
			return err
		}
	}
	printFunctions(printer, out, fns)
	return nil
}

func printFunctions(printer *bc.Printer, out io.Writer, fns []*bc.Function) {
	for i, fn := range fns {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printer.PrintFunction(fn)
	}
}

// nextFreeLabel returns the first Regular id above every label defined in
// the program, so fresh labels cannot collide with existing ones. References
// always point at definitions in the same body, so definitions bound the
// id space.
func nextFreeLabel(fns []*bc.Function) bc.LabelID {
	var next bc.LabelID
	for _, fn := range fns {
		fn.Body.Each(func(in bc.Instruction) error {
			if ld, ok := in.(bc.LabelDef); ok {
				if id, ok := bc.RegularID(ld.L); ok && id >= next {
					next = id + 1
				}
			}
			return nil
		})
	}
	return next
}
