package repl

import (
	"bufio"
	"fmt"
	"io"
	"lox/internal/evaluator"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/transform"

	"github.com/fatih/color"
)

const PROMPT = ">> "

// Start reads lines from in, evaluating each against a single persistent
// environment so definitions survive across lines.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	env := object.NewEnvironment()
	eval := evaluator.New(env, out)
	builder := transform.New()
	errColor := color.New(color.FgRed)

	for {
		fmt.Fprint(out, PROMPT)
		scanned := scanner.Scan()
		if !scanned {
			return
		}

		line := scanner.Text()
		l := lexer.New(line)
		p := parser.New(l)

		tree := p.ParseProgram()
		if len(p.Errors()) != 0 {
			printParserErrors(out, errColor, p.Errors())
			continue
		}

		program, err := builder.Program(tree)
		if err != nil {
			errColor.Fprintf(out, "\t%s\n", err)
			continue
		}

		evaluated := eval.Eval(program)
		if evaluated == nil {
			continue
		}
		if evaluated.Type() == object.ERROR_OBJ {
			errColor.Fprintln(out, evaluated.Inspect())
			continue
		}
		if evaluated != object.NIL {
			io.WriteString(out, evaluated.Inspect())
			io.WriteString(out, "\n")
		}
	}
}

func printParserErrors(out io.Writer, c *color.Color, errors []string) {
	c.Fprintln(out, "parser errors:")
	for _, msg := range errors {
		c.Fprintf(out, "\t%s\n", msg)
	}
}
