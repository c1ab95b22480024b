package relabel

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fern-lang/fernc/pkg/asm"
	"github.com/fern-lang/fernc/pkg/bc"
	"gopkg.in/yaml.v3"
)

// TestSpec represents a test case from relabel.yaml
type TestSpec struct {
	Name   string `yaml:"name"`
	Input  string `yaml:"input"`
	Expect string `yaml:"expect"`
	Error  string `yaml:"error"`
}

// TestFile represents the relabel.yaml file structure
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

func TestRelabelYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/relabel.yaml")
	if err != nil {
		t.Fatalf("failed to read relabel.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse relabel.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			fn, err := asm.ParseFunction(tc.Input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			err = Function(fn.Params, fn.Body)
			if tc.Error != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got none", tc.Error)
				}
				if !strings.Contains(err.Error(), tc.Error) {
					t.Errorf("error = %q, want it to contain %q", err, tc.Error)
				}
				return
			}
			if err != nil {
				t.Fatalf("relabel: %v", err)
			}

			var out bytes.Buffer
			bc.NewPrinter(&out).PrintFunction(fn)
			if out.String() != tc.Expect {
				t.Errorf("output:\n%s\nwant:\n%s", out.String(), tc.Expect)
			}
		})
	}
}
