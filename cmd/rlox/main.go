package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kristofer/rlox/pkg/ast"
	"github.com/kristofer/rlox/pkg/diagnostic"
	"github.com/kristofer/rlox/pkg/interpreter"
	"github.com/kristofer/rlox/pkg/parser"
	"github.com/kristofer/rlox/pkg/resolver"
)

const version = "0.1.0"

// main dispatches purely on argument count: no args starts the REPL,
// one arg runs that file as a script, and anything else is a usage
// error. There are no subcommands or flags.
func main() {
	switch len(os.Args) {
	case 1:
		runREPL()
	case 2:
		runFile(os.Args[1])
	default:
		printUsage()
		os.Exit(64)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "rlox version %s - a tree-walking interpreter for a small C-like scripting language\n", version)
	fmt.Fprintln(os.Stderr, "Usage: rlox [script]")
}

// runFile reads, parses, resolves, and interprets a source file.
// Exit code follows the conventional sysexits.h split an interpreter
// like this one cares about: 65 for a malformed program (parse or
// resolve errors), 70 for a program that failed while running.
func runFile(filename string) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	statements, locals, err := compile(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(65)
	}

	interp := interpreter.New(os.Stdout)
	interp.SetLocals(locals)
	if err := interp.Interpret(statements); err != nil {
		reportRuntimeError(err)
		os.Exit(70)
	}
}

// compile runs the parse and resolve passes shared by runFile and the
// REPL, keeping the pipeline's shape visible at a single call site.
func compile(source string) ([]ast.Stmt, map[int]int, error) {
	p := parser.New(source)
	statements, err := p.Parse()
	if err != nil {
		return statements, nil, err
	}

	locals, err := resolver.New().Resolve(statements)
	if err != nil {
		return statements, locals, err
	}
	return statements, locals, nil
}

func runREPL() {
	fmt.Printf("rlox REPL v%s\n", version)
	fmt.Println("Type 'exit' or Ctrl-D to quit")
	fmt.Println()

	// A single interpreter persists across the whole session so that
	// globals and functions declared on one line remain visible to the
	// next — the resolver, by contrast, is re-run fresh on every line
	// since it only needs the statements currently being read.
	interp := interpreter.New(os.Stdout)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("rlox> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return
		}

		statements, locals, err := compile(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		interp.SetLocals(locals)

		if err := interp.Interpret(statements); err != nil {
			reportRuntimeError(err)
		}
	}
}

func reportRuntimeError(err error) {
	var rerr *diagnostic.RuntimeError
	if errors.As(err, &rerr) {
		fmt.Fprintln(os.Stderr, rerr.Error())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
