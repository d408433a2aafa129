package parser

import (
	"encoding/json"
	"testing"

	"zephyr-lang/internal/ast"
	"zephyr-lang/internal/lexer"
	"zephyr-lang/internal/token"
)

// helper: parse source and fail the test on any diagnostic
func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	l := lexer.New(source, "test.zp")
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	p := New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return prog
}

// helper: parse and return the JSON dump
func parseToJSON(t *testing.T, source string) string {
	t.Helper()
	prog := parseOK(t, source)
	m := ast.NodeToMap(prog)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		t.Fatalf("json error: %v", err)
	}
	return string(data)
}

func TestParseLetDecl(t *testing.T) {
	prog := parseOK(t, `let x = 42`)
	if len(prog.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", prog.Body[0])
	}
	if decl.Name != "x" {
		t.Errorf("expected name 'x', got %q", decl.Name)
	}
	if decl.IsConst {
		t.Error("expected let, got const")
	}
}

func TestParseConstDecl(t *testing.T) {
	prog := parseOK(t, `const PI = 3.14`)
	decl, ok := prog.Body[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected VarDeclStmt, got %T", prog.Body[0])
	}
	if !decl.IsConst {
		t.Error("expected const")
	}
	if decl.Name != "PI" {
		t.Errorf("expected name 'PI', got %q", decl.Name)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parseOK(t, `let z = 1 + 2 * 3`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	// init should be BinaryExpr: 1 + (2 * 3)
	binExpr, ok := decl.Init.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr, got %T", decl.Init)
	}
	if binExpr.Op != token.PLUS {
		t.Errorf("expected '+', got %q", binExpr.Op.String())
	}
	rightBin, ok := binExpr.Right.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected right BinaryExpr, got %T", binExpr.Right)
	}
	if rightBin.Op != token.STAR {
		t.Errorf("expected '*', got %q", rightBin.Op.String())
	}
}

func TestParseIfElseChain(t *testing.T) {
	source := `if (x > 0) {
  console.log(x)
} else if (x == 0) {
  console.log(0)
} else {
  console.log(99)
}`
	prog := parseOK(t, source)
	ifStmt, ok := prog.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Body[0])
	}
	if ifStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	// else-if chains nest: the else branch is another IfStmt
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected nested IfStmt in else, got %T", ifStmt.Else)
	}
	if elseIf.Else == nil {
		t.Error("expected final else branch")
	}
}

func TestParseIfWithoutBraces(t *testing.T) {
	prog := parseOK(t, `if (x) y = 1`)
	ifStmt := prog.Body[0].(*ast.IfStmt)
	if _, ok := ifStmt.Then.(*ast.ExprStmt); !ok {
		t.Fatalf("expected ExprStmt branch, got %T", ifStmt.Then)
	}
}

func TestParseWhileStmt(t *testing.T) {
	source := `while (i < 10) {
  i = i + 1
}`
	prog := parseOK(t, source)
	whileStmt, ok := prog.Body[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", prog.Body[0])
	}
	if whileStmt.Condition == nil {
		t.Fatal("condition is nil")
	}
	if whileStmt.Body == nil {
		t.Fatal("body is nil")
	}
}

func TestParseFuncDecl(t *testing.T) {
	source := `function add(a, b) {
  return a + b
}`
	prog := parseOK(t, source)
	fn, ok := prog.Body[0].(*ast.FuncDeclStmt)
	if !ok {
		t.Fatalf("expected FuncDeclStmt, got %T", prog.Body[0])
	}
	if fn.Name != "add" {
		t.Errorf("expected name 'add', got %q", fn.Name)
	}
	if len(fn.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.IsAsync {
		t.Error("expected non-async function")
	}
}

func TestParseAsyncFuncDecl(t *testing.T) {
	source := `async function fetchData(url) {
  return await get(url)
}`
	prog := parseOK(t, source)
	fn, ok := prog.Body[0].(*ast.FuncDeclStmt)
	if !ok {
		t.Fatalf("expected FuncDeclStmt, got %T", prog.Body[0])
	}
	if !fn.IsAsync {
		t.Error("expected async flag")
	}
	ret := fn.Body.Stmts[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.AwaitExpr); !ok {
		t.Errorf("expected AwaitExpr, got %T", ret.Value)
	}
}

func TestParseCallExpr(t *testing.T) {
	prog := parseOK(t, `print(1, 2, 3)`)
	stmt, ok := prog.Body[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Body[0])
	}
	call, ok := stmt.Expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected CallExpr, got %T", stmt.Expr)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(call.Args))
	}
}

func TestParseMemberCall(t *testing.T) {
	prog := parseOK(t, `console.log("hi")`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	call := stmt.Expr.(*ast.CallExpr)
	member, ok := call.Callee.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("expected MemberExpr callee, got %T", call.Callee)
	}
	if member.Property != "log" {
		t.Errorf("expected property 'log', got %q", member.Property)
	}
	obj, ok := member.Object.(*ast.IdentExpr)
	if !ok || obj.Name != "console" {
		t.Errorf("expected identifier object 'console', got %T", member.Object)
	}
}

func TestParseIndexExpr(t *testing.T) {
	prog := parseOK(t, `let v = items[2]`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	idx, ok := decl.Init.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("expected IndexExpr, got %T", decl.Init)
	}
	if _, ok := idx.Index.(*ast.NumberLiteral); !ok {
		t.Errorf("expected NumberLiteral index, got %T", idx.Index)
	}
}

func TestParseArrayLiteral(t *testing.T) {
	prog := parseOK(t, `let xs = [1, 2, 3,]`)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	arr, ok := decl.Init.(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expected ArrayLiteral, got %T", decl.Init)
	}
	if len(arr.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(arr.Elements))
	}
}

func TestParseObjectLiteral(t *testing.T) {
	source := `let cfg = {
  name: "app",
  "max-size": 10,
}`
	prog := parseOK(t, source)
	decl := prog.Body[0].(*ast.VarDeclStmt)
	obj, ok := decl.Init.(*ast.ObjectLiteral)
	if !ok {
		t.Fatalf("expected ObjectLiteral, got %T", decl.Init)
	}
	if len(obj.Keys) != 2 || obj.Keys[0] != "name" || obj.Keys[1] != "max-size" {
		t.Errorf("unexpected keys: %v", obj.Keys)
	}
}

func TestParseBlockAtStatementPosition(t *testing.T) {
	// A brace at statement position opens a block, not an object literal.
	prog := parseOK(t, `{ let x = 1 }`)
	if _, ok := prog.Body[0].(*ast.BlockStmt); !ok {
		t.Fatalf("expected BlockStmt, got %T", prog.Body[0])
	}
}

func TestParseBareObjectLiteralStatementFails(t *testing.T) {
	// `{ b: 2 }` at statement position is a block whose body fails to
	// parse, not an object literal; expression position is fine.
	l := lexer.New(`{ b: 2 }`, "test.zp")
	tokens, _ := l.Tokenize()
	_, diags := New(tokens).ParseProgram()
	if len(diags) == 0 {
		t.Error("expected parse errors for a bare object literal statement")
	}

	parseOK(t, `let o = { b: 2 }`)
}

func TestParseAssignExpr(t *testing.T) {
	prog := parseOK(t, `x = 42`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	assign, ok := stmt.Expr.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected AssignExpr, got %T", stmt.Expr)
	}
	if assign.Name != "x" {
		t.Errorf("expected 'x', got %q", assign.Name)
	}
}

func TestParseAssignRightAssociative(t *testing.T) {
	prog := parseOK(t, `a = b = 1`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	outer := stmt.Expr.(*ast.AssignExpr)
	if outer.Name != "a" {
		t.Fatalf("expected outer target 'a', got %q", outer.Name)
	}
	inner, ok := outer.Value.(*ast.AssignExpr)
	if !ok || inner.Name != "b" {
		t.Fatalf("expected nested AssignExpr to 'b', got %T", outer.Value)
	}
}

func TestParseAssignToMemberIsDropped(t *testing.T) {
	// Assignment targets other than a bare identifier are not supported;
	// the expression parses to the unmodified left side.
	prog := parseOK(t, `obj.field = 1`)
	stmt := prog.Body[0].(*ast.ExprStmt)
	if _, ok := stmt.Expr.(*ast.MemberExpr); !ok {
		t.Fatalf("expected MemberExpr, got %T", stmt.Expr)
	}
}

func TestParseTryCatch(t *testing.T) {
	source := `try {
  risky()
} catch (e) {
  console.log(e)
}`
	prog := parseOK(t, source)
	try, ok := prog.Body[0].(*ast.TryStmt)
	if !ok {
		t.Fatalf("expected TryStmt, got %T", prog.Body[0])
	}
	if try.CatchParam != "e" {
		t.Errorf("expected catch param 'e', got %q", try.CatchParam)
	}
	if try.CatchBody == nil {
		t.Error("catch body is nil")
	}
}

func TestParseTryWithoutCatch(t *testing.T) {
	prog := parseOK(t, `try { work() }`)
	try := prog.Body[0].(*ast.TryStmt)
	if try.CatchBody != nil {
		t.Error("expected no catch body")
	}
}

func TestParseThrow(t *testing.T) {
	prog := parseOK(t, `throw "bad input"`)
	throw, ok := prog.Body[0].(*ast.ThrowStmt)
	if !ok {
		t.Fatalf("expected ThrowStmt, got %T", prog.Body[0])
	}
	if _, ok := throw.Value.(*ast.StringLiteral); !ok {
		t.Errorf("expected StringLiteral, got %T", throw.Value)
	}
}

func TestParseSemicolonsOptional(t *testing.T) {
	prog := parseOK(t, "let a = 1; let b = 2\nlet c = 3")
	if len(prog.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(prog.Body))
	}
}

func TestParseJSONOutput(t *testing.T) {
	jsonStr := parseToJSON(t, `let x = 1`)
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(jsonStr), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "Program" {
		t.Errorf("expected kind 'Program', got %v", m["kind"])
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// Missing closing paren: the parser should report errors and keep going
	source := `let x = add(1, 2
let y = 3`
	l := lexer.New(source, "test.zp")
	tokens, _ := l.Tokenize()
	p := New(tokens)
	prog, diags := p.ParseProgram()

	if len(diags) == 0 {
		t.Error("expected parse errors")
	}
	if prog == nil {
		t.Fatal("program is nil")
	}
}
