// Package parser implements syntax analysis for zephyr.
// It uses Pratt parsing for expressions and recursive descent for statements.
package parser

import (
	"fmt"
	"strconv"

	"zephyr-lang/internal/ast"
	"zephyr-lang/internal/diag"
	"zephyr-lang/internal/span"
	"zephyr-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // ||
	bpAnd        = 20 // &&
	bpEquality   = 30 // == !=
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * / %
	bpPrefix     = 70 // await
	bpPostfix    = 80 // () [] .
)

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	case token.LPAREN, token.LBRACKET, token.DOT:
		return bpPostfix
	default:
		return bpNone
	}
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
}

// New creates a parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseProgram parses the entire token stream and returns the AST root
// and any diagnostics. Callers must not execute the program if any
// diagnostic is an error.
func (p *Parser) ParseProgram() (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{}
	startPos := p.peek().Span.Start

	p.skipSep()
	for !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		p.skipSep()
	}

	endPos := p.peek().Span.End
	prog.Span = span.Between(startPos, endPos)
	return prog, p.diags
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens (statement separators).
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

// skipNewlines skips NEWLINE tokens only.
func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// ============================================================
// Error recovery
// ============================================================

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		if p.check(token.RBRACE) {
			return
		}
		if p.match(token.KW_LET, token.KW_CONST, token.KW_VAR, token.KW_FUNCTION,
			token.KW_ASYNC, token.KW_IF, token.KW_WHILE, token.KW_RETURN,
			token.KW_TRY, token.KW_THROW) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.KW_LET, token.KW_CONST, token.KW_VAR:
		return p.parseVarDecl()
	case token.KW_FUNCTION:
		return p.parseFuncDecl(false)
	case token.KW_ASYNC:
		return p.parseAsyncDecl()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.KW_TRY:
		return p.parseTryStmt()
	case token.KW_THROW:
		return p.parseThrowStmt()
	case token.LBRACE:
		// A brace at statement position opens a block, not an object literal.
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseVarDecl parses: (let | const | var) IDENT [ = expr ]
func (p *Parser) parseVarDecl() *ast.VarDeclStmt {
	start := p.advance() // let / const / var
	stmt := &ast.VarDeclStmt{IsConst: start.Kind == token.KW_CONST}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	stmt.Name = nameTok.Lexeme

	if p.check(token.ASSIGN) {
		p.advance()
		p.skipNewlines()
		stmt.Init = p.parseExpr()
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseAsyncDecl parses: async function name(params) block
func (p *Parser) parseAsyncDecl() ast.Stmt {
	start := p.advance() // 'async'
	if !p.check(token.KW_FUNCTION) {
		tok := p.peek()
		p.error("E2004", tok.Span, fmt.Sprintf("expected 'function' after 'async', got '%s'", tok.Kind))
		p.synchronize()
		return &ast.ExprStmt{StmtBase: makeStmtBase(start.Span.Start, p.prevEnd())}
	}
	decl := p.parseFuncDecl(true)
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseFuncDecl parses: function IDENT ( params ) block
func (p *Parser) parseFuncDecl(isAsync bool) *ast.FuncDeclStmt {
	start := p.advance() // 'function'
	decl := &ast.FuncDeclStmt{IsAsync: isAsync}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		decl.Span = p.makeSpan(start.Span.Start)
		return decl
	}
	decl.Name = nameTok.Lexeme

	decl.Params = p.parseParamList()
	decl.Body = p.parseBlock()
	decl.Span = p.makeSpan(start.Span.Start)
	return decl
}

// parseIfStmt parses: if (expr) stmt [ else stmt ]
// Branches are ordinary statements; a braced branch parses as a block.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // 'if'
	stmt := &ast.IfStmt{}

	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	p.skipNewlines()
	stmt.Condition = p.parseExpr()
	p.skipNewlines()
	p.expect(token.RPAREN)
	p.skipNewlines()

	stmt.Then = p.parseStmt()

	p.skipNewlines()
	if p.check(token.KW_ELSE) {
		p.advance()
		p.skipNewlines()
		stmt.Else = p.parseStmt()
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseWhileStmt parses: while (expr) stmt
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // 'while'
	stmt := &ast.WhileStmt{}

	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		stmt.Span = p.makeSpan(start.Span.Start)
		return stmt
	}
	p.skipNewlines()
	stmt.Condition = p.parseExpr()
	p.skipNewlines()
	p.expect(token.RPAREN)
	p.skipNewlines()
	stmt.Body = p.parseStmt()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseReturnStmt parses: return [expr]
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance() // 'return'
	stmt := &ast.ReturnStmt{}

	// The value, if any, must start on the same line.
	if !p.match(token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF) {
		stmt.Value = p.parseExpr()
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseTryStmt parses: try block [ catch ( IDENT ) block ]
// A try without a catch clause degenerates to its body.
func (p *Parser) parseTryStmt() *ast.TryStmt {
	start := p.advance() // 'try'
	stmt := &ast.TryStmt{}

	stmt.Body = p.parseBlock()

	p.skipNewlines()
	if p.check(token.KW_CATCH) {
		p.advance()
		if _, ok := p.expect(token.LPAREN); ok {
			nameTok, ok := p.expect(token.IDENT)
			if ok {
				stmt.CatchParam = nameTok.Lexeme
			}
			p.expect(token.RPAREN)
		}
		stmt.CatchBody = p.parseBlock()
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseThrowStmt parses: throw expr
func (p *Parser) parseThrowStmt() *ast.ThrowStmt {
	start := p.advance() // 'throw'
	stmt := &ast.ThrowStmt{}
	stmt.Value = p.parseExpr()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseExprStmt parses an expression used as a statement.
func (p *Parser) parseExprStmt() ast.Stmt {
	expr := p.parseExpr()
	if expr == nil {
		tok := p.peek()
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", tok.Lexeme))
		p.synchronize()
		return &ast.ExprStmt{
			StmtBase: makeStmtBase(tok.Span.Start, tok.Span.End),
		}
	}
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, expr.GetSpan().End),
		Expr:     expr,
	}
}

// parseBlock parses: { stmts }
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.peek()
	block := &ast.BlockStmt{}

	if _, ok := p.expect(token.LBRACE); !ok {
		p.synchronize()
		block.Span = p.makeSpan(start.Span.Start)
		return block
	}

	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipSep()
	}

	p.expect(token.RBRACE)
	block.Span = p.makeSpan(start.Span.Start)
	return block
}

// parseParamList parses: ( ident, ident, ... )
func (p *Parser) parseParamList() []string {
	var params []string

	if _, ok := p.expect(token.LPAREN); !ok {
		return params
	}

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		nameTok, ok := p.expect(token.IDENT)
		if ok {
			params = append(params, nameTok.Lexeme)
		}
		for p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			nameTok, ok = p.expect(token.IDENT)
			if ok {
				params = append(params, nameTok.Lexeme)
			}
		}
	}

	p.skipNewlines()
	p.expect(token.RPAREN)
	return params
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseExpr parses a full expression, including assignment.
// Assignment binds loosest and is right-associative.
func (p *Parser) parseExpr() ast.Expr {
	left := p.parseBinary(bpNone)
	if left == nil {
		return nil
	}

	if p.check(token.ASSIGN) {
		p.advance() // '='
		p.skipNewlines()
		value := p.parseExpr()
		if ident, ok := left.(*ast.IdentExpr); ok {
			return &ast.AssignExpr{
				ExprBase: makeExprBase(left.GetSpan().Start, p.prevEnd()),
				Name:     ident.Name,
				Value:    value,
			}
		}
		// Assignment to anything but a bare identifier is not supported;
		// the right side is parsed and discarded.
		return left
	}

	return left
}

// parseBinary parses with the given minimum binding power.
func (p *Parser) parseBinary(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		kind := p.peekKind()
		bp := infixBP(kind)
		if bp <= minBP {
			break
		}
		left = p.led(left)
	}

	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, _ := strconv.ParseFloat(tok.Lexeme, 64)
		return &ast.NumberLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.STRING:
		p.advance()
		return &ast.StringLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Lexeme,
		}

	case token.KW_TRUE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    true,
		}

	case token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    false,
		}

	case token.KW_NULL:
		p.advance()
		return &ast.NullLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		}

	case token.KW_UNDEFINED:
		p.advance()
		return &ast.UndefinedLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
		}

	case token.IDENT:
		p.advance()
		return &ast.IdentExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok.Lexeme,
		}

	case token.KW_AWAIT:
		p.advance()
		p.skipNewlines()
		operand := p.parseBinary(bpPrefix)
		if operand == nil {
			p.error("E2002", tok.Span, "expected expression after 'await'")
			return nil
		}
		return &ast.AwaitExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Operand:  operand,
		}

	case token.LPAREN:
		// Grouped expression: ( expr )
		p.advance()
		p.skipNewlines()
		expr := p.parseExpr()
		p.skipNewlines()
		p.expect(token.RPAREN)
		return expr

	case token.LBRACKET:
		return p.parseArrayLiteral()

	case token.LBRACE:
		return p.parseObjectLiteral()

	default:
		return nil
	}
}

// led handles infix/postfix (left denotation) parsing.
func (p *Parser) led(left ast.Expr) ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NEQ, token.LT, token.LTE, token.GT, token.GTE,
		token.AND, token.OR:
		// Binary infix operator (left-associative)
		bp := infixBP(tok.Kind)
		p.advance()
		p.skipNewlines() // allow continuation on the next line after an operator
		right := p.parseBinary(bp)
		if right == nil {
			p.error("E2002", p.peek().Span, fmt.Sprintf("expected expression after '%s'", tok.Kind))
			return left
		}
		return &ast.BinaryExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
			Op:       tok.Kind,
			Left:     left,
			Right:    right,
		}

	case token.LPAREN:
		return p.parseCallExpr(left)

	case token.LBRACKET:
		// Index expression: object[index]
		p.advance()
		p.skipNewlines()
		index := p.parseExpr()
		p.skipNewlines()
		end, _ := p.expect(token.RBRACKET)
		return &ast.IndexExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, end.Span.End),
			Object:   left,
			Index:    index,
		}

	case token.DOT:
		// Member access: object.property
		p.advance()
		p.skipNewlines()
		propTok, _ := p.expect(token.IDENT)
		return &ast.MemberExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, propTok.Span.End),
			Object:   left,
			Property: propTok.Lexeme,
		}

	default:
		return left
	}
}

// parseCallExpr parses: callee ( args )
func (p *Parser) parseCallExpr(callee ast.Expr) *ast.CallExpr {
	p.advance() // '('
	var args []ast.Expr

	p.skipNewlines()
	if !p.check(token.RPAREN) {
		args = append(args, p.parseExpr())
		for p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			args = append(args, p.parseExpr())
		}
	}
	p.skipNewlines()
	end, _ := p.expect(token.RPAREN)

	return &ast.CallExpr{
		ExprBase: makeExprBase(callee.GetSpan().Start, end.Span.End),
		Callee:   callee,
		Args:     args,
	}
}

// parseArrayLiteral parses: [ expr, expr, ... ]
func (p *Parser) parseArrayLiteral() *ast.ArrayLiteral {
	start := p.advance() // '['
	var elements []ast.Expr

	p.skipNewlines()
	if !p.check(token.RBRACKET) {
		elements = append(elements, p.parseExpr())
		for p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			if p.check(token.RBRACKET) {
				break // trailing comma
			}
			elements = append(elements, p.parseExpr())
		}
	}
	p.skipNewlines()
	end, _ := p.expect(token.RBRACKET)

	return &ast.ArrayLiteral{
		ExprBase: makeExprBase(start.Span.Start, end.Span.End),
		Elements: elements,
	}
}

// parseObjectLiteral parses: { key: expr, ... }
// Keys are identifiers or string literals.
func (p *Parser) parseObjectLiteral() *ast.ObjectLiteral {
	start := p.advance() // '{'
	lit := &ast.ObjectLiteral{}

	p.skipNewlines()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		var key string
		switch p.peekKind() {
		case token.IDENT, token.STRING:
			key = p.advance().Lexeme
		default:
			tok := p.peek()
			p.error("E2003", tok.Span, fmt.Sprintf("expected object key, got '%s'", tok.Kind))
			p.synchronize()
			lit.Span = p.makeSpan(start.Span.Start)
			return lit
		}

		p.expect(token.COLON)
		p.skipNewlines()
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, p.parseExpr())

		p.skipNewlines()
		if p.check(token.COMMA) {
			p.advance()
			p.skipNewlines()
			continue
		}
		break
	}

	end, _ := p.expect(token.RBRACE)
	lit.Span = span.Between(start.Span.Start, end.Span.End)
	return lit
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Between(start, p.prevEnd())
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Between(start, end)}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Between(start, end)}}
}
