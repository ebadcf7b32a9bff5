package evaluator

import (
	"bytes"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/transform"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type conformanceCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output"`
	Error  string `yaml:"error"`
}

type conformanceSuite struct {
	Cases []conformanceCase `yaml:"cases"`
}

// TestConformance runs the end-to-end fixtures: each case is a full program
// with either its expected stdout or the kind of runtime error it must raise.
func TestConformance(t *testing.T) {
	data, err := os.ReadFile("testdata/conformance.yaml")
	require.NoError(t, err)

	var suite conformanceSuite
	require.NoError(t, yaml.Unmarshal(data, &suite))
	require.NotEmpty(t, suite.Cases)

	for _, tc := range suite.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			p := parser.New(lexer.New(tc.Source))
			tree := p.ParseProgram()
			require.Empty(t, p.Errors(), "parser errors")

			program, err := transform.New().Program(tree)
			require.NoError(t, err)

			var out bytes.Buffer
			result := New(object.NewEnvironment(), &out).Eval(program)

			if tc.Error != "" {
				errObj, ok := result.(*object.Error)
				require.True(t, ok, "expected a runtime error, got %v", result)
				assert.Equal(t, object.ErrorKind(tc.Error), errObj.Kind)
				return
			}

			if errObj, ok := result.(*object.Error); ok {
				t.Fatalf("unexpected runtime error: %s", errObj.Inspect())
			}
			assert.Equal(t, tc.Output, out.String())
		})
	}
}
