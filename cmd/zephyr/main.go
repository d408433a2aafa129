// Command zephyr is the CLI entry point for the zephyr toolchain.
//
// Usage:
//
//	zephyr run     <file>           Run a source file
//	zephyr eval    <code>           Evaluate a code snippet
//	zephyr tokens  <file> [--json]  Print tokens
//	zephyr parse   <file>           Print AST as JSON
//	zephyr repl                     Start interactive REPL
//	zephyr init                     Create package.json
//	zephyr install [pkg]            Install dependencies
//	zephyr script  <name>           Run a manifest script
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	zephyr "zephyr-lang"
	"zephyr-lang/internal/ast"
	"zephyr-lang/internal/lexer"
	"zephyr-lang/internal/parser"
	"zephyr-lang/internal/project"
	"zephyr-lang/internal/runtime"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	loadDotEnv()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		cmdRun(os.Args[2])
	case "eval":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing code argument")
			os.Exit(1)
		}
		cmdEval(os.Args[2])
	case "tokens":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		cmdTokens(readFile(os.Args[2]), os.Args[2], hasFlag("--json"))
	case "parse":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing file argument")
			os.Exit(1)
		}
		cmdParse(readFile(os.Args[2]), os.Args[2])
	case "repl":
		cmdRepl()
	case "init":
		if _, err := project.Init("."); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "install":
		pkg := ""
		if len(os.Args) >= 3 {
			pkg = os.Args[2]
		}
		if err := project.Install(".", pkg); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "script":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "error: missing script name")
			os.Exit(1)
		}
		if err := project.RunScript(".", os.Args[2], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command '%s'\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  zephyr run     <file>           Run a source file")
	fmt.Fprintln(os.Stderr, "  zephyr eval    <code>           Evaluate a code snippet")
	fmt.Fprintln(os.Stderr, "  zephyr tokens  <file> [--json]  Tokenize and print tokens")
	fmt.Fprintln(os.Stderr, "  zephyr parse   <file>           Parse and print AST (JSON)")
	fmt.Fprintln(os.Stderr, "  zephyr repl                     Start interactive REPL")
	fmt.Fprintln(os.Stderr, "  zephyr init                     Create package.json")
	fmt.Fprintln(os.Stderr, "  zephyr install [pkg]            Install dependencies")
	fmt.Fprintln(os.Stderr, "  zephyr script  <name>           Run a manifest script")
}

// loadDotEnv loads .env from the working directory when present, so scripts
// see its variables through env.get().
func loadDotEnv() {
	if _, err := os.Stat(".env"); err != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

func hasFlag(flag string) bool {
	for _, arg := range os.Args[3:] {
		if arg == flag {
			return true
		}
	}
	return false
}

// ---- run and eval commands ----

func cmdRun(filename string) {
	source := readFile(filename)
	eng := newEngine(filepath.Dir(filename))
	val, err := eng.EvalFile(source, filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	printResult(val)
}

func cmdEval(code string) {
	eng := newEngine(".")
	val, err := eng.Eval(code)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	printResult(val)
}

func newEngine(dir string) *zephyr.Engine {
	return zephyr.New(
		zephyr.WithOutput(os.Stdout),
		zephyr.WithErrorOutput(os.Stderr),
		zephyr.WithModuleResolver(moduleResolver(dir)),
	)
}

// moduleResolver evaluates .zp modules resolved against dir. Each module
// runs once in its own engine; its final value is what require() returns.
func moduleResolver(dir string) zephyr.ModuleResolver {
	cache := map[string]zephyr.Value{}
	var resolve zephyr.ModuleResolver
	resolve = func(spec string) (zephyr.Value, error) {
		if val, ok := cache[spec]; ok {
			return val, nil
		}
		res, err := project.ResolveModule(dir, spec)
		if err != nil {
			return nil, err
		}
		if res.Kind == project.KindBuiltin {
			// builtins are served before the resolver is consulted
			return nil, fmt.Errorf("module not found: '%s'", spec)
		}
		source, err := os.ReadFile(res.Path)
		if err != nil {
			return nil, fmt.Errorf("module '%s': %w", spec, err)
		}
		sub := zephyr.New(
			zephyr.WithOutput(os.Stdout),
			zephyr.WithErrorOutput(os.Stderr),
			zephyr.WithModuleResolver(resolve),
		)
		val, err := sub.EvalFile(string(source), res.Path)
		if err != nil {
			return nil, fmt.Errorf("module '%s': %w", spec, err)
		}
		cache[spec] = val
		return val, nil
	}
	return resolve
}

// printResult echoes a script's final value unless it is undefined.
func printResult(val zephyr.Value) {
	if val == nil {
		return
	}
	if _, ok := val.(runtime.UndefinedVal); ok {
		return
	}
	fmt.Println(val.String())
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()

	allDiags := append(lexDiags, parseDiags...)

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(prog),
		"diagnostics": diagsToSlice(allDiags),
	}
	printJSON(output)

	if len(allDiags) > 0 {
		os.Exit(1)
	}
}
