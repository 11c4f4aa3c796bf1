package parser

import (
	"errors"
	"fmt"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/lexer"
	"github.com/example/esengine/token"
)

const DefaultMaxDepth = 512

// SyntaxError is a committed parse failure. Ordinary alternatives that do not
// match are not errors; they rewind the cursor and report no node.
type SyntaxError struct {
	Token token.Token
	Index int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError at %d:%d: %s", e.Token.Line, e.Token.Column, e.Msg)
}

// IsIncomplete reports whether err is a SyntaxError raised at end of input,
// meaning more source could still complete the program.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Token.Kind == token.EOF
}

// statementReserved holds keywords that can never begin a statement.
var statementReserved = map[string]bool{
	"else": true, "case": true, "default": true, "catch": true, "finally": true,
	"throw": true, "try": true, "switch": true, "with": true, "in": true,
	"instanceof": true, "for": true, "do": true, "class": true, "const": true,
	"enum": true, "export": true, "extends": true, "import": true, "super": true,
	"debugger": true,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "^=": true, "|=": true,
}

var unaryOps = map[string]bool{
	"delete": true, "void": true, "typeof": true,
	"+": true, "-": true, "~": true, "!": true,
}

type binaryLevel struct {
	ops     []string
	logical bool
}

func (l binaryLevel) has(tok token.Token) bool {
	for _, op := range l.ops {
		if tok.Is(op) {
			return true
		}
	}
	return false
}

// levels runs loosest to tightest; the level after the last one is unary.
var levels = []binaryLevel{
	{ops: []string{"||"}, logical: true},
	{ops: []string{"&&"}, logical: true},
	{ops: []string{"|"}},
	{ops: []string{"^"}},
	{ops: []string{"&"}},
	{ops: []string{"==", "!=", "===", "!=="}},
	{ops: []string{"<", ">", "<=", ">=", "instanceof", "in"}},
	{ops: []string{"<<", ">>", ">>>"}},
	{ops: []string{"+", "-"}},
	{ops: []string{"*", "/", "%"}},
}

type memoEntry struct {
	node ast.Node
	end  int
}

type Parser struct {
	tokens   []token.Token
	pos      int
	furthest int
	depth    int
	maxDepth int
	loops    int
	err      *SyntaxError

	memberMemo map[int]memoEntry
	lhsMemo    map[int]memoEntry
}

type Option func(*Parser)

// WithMaxDepth caps expression and statement nesting.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxDepth = n
		}
	}
}

func New(tokens []token.Token, opts ...Option) *Parser {
	toks := tokens
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		eof := token.Token{Kind: token.EOF}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			eof.Line, eof.Column = last.Line, last.Column+len(last.Lexeme)
		}
		toks = append(append([]token.Token(nil), tokens...), eof)
	}
	p := &Parser{
		tokens:     toks,
		maxDepth:   DefaultMaxDepth,
		memberMemo: make(map[int]memoEntry),
		lhsMemo:    make(map[int]memoEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a complete program from an already-lexed token stream.
func Parse(tokens []token.Token, opts ...Option) (*ast.Block, error) {
	return New(tokens, opts...).ParseProgram()
}

func ParseSource(source string, opts ...Option) (*ast.Block, error) {
	return Parse(lexer.Tokenize(source), opts...)
}

func (p *Parser) ParseProgram() (*ast.Block, error) {
	for i, tok := range p.tokens {
		if tok.Kind == token.Illegal {
			return nil, &SyntaxError{Token: tok, Index: i, Msg: tok.Lexeme}
		}
	}
	program := p.sourceElements(p.peek())
	if p.err != nil {
		return nil, p.err
	}
	if p.peek().Kind != token.EOF {
		idx := p.furthest
		if idx >= len(p.tokens) {
			idx = len(p.tokens) - 1
		}
		tok := p.tokens[idx]
		return nil, &SyntaxError{Token: tok, Index: idx, Msg: "unexpected " + tok.String()}
	}
	return program, nil
}

// ---------- token helpers ----------

func (p *Parser) peek() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		if p.pos > p.furthest {
			p.furthest = p.pos
		}
	}
	return tok
}

func (p *Parser) match(lexeme string) bool {
	if p.peek().Is(lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) fail(idx int, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &SyntaxError{Token: p.tokens[idx], Index: idx, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.fail(p.pos, "nesting exceeds %d levels", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// ---------- statements ----------

// sourceElements parses statements and function declarations up to a closing
// brace or end of input. Program bodies and function bodies share it.
func (p *Parser) sourceElements(start token.Token) *ast.Block {
	block := &ast.Block{Token: start}
	for p.err == nil {
		tok := p.peek()
		if tok.Kind == token.EOF || tok.Is("}") {
			break
		}
		var stmt ast.Node
		if fn := p.functionDeclaration(); fn != nil {
			stmt = fn
		} else {
			stmt = p.statement()
		}
		if stmt == nil {
			break
		}
		block.Body = append(block.Body, stmt)
	}
	return block
}

func (p *Parser) statement() ast.Node {
	if p.err != nil {
		return nil
	}
	tok := p.peek()
	if tok.Kind == token.Keyword && statementReserved[tok.Lexeme] {
		p.fail(p.pos, "unexpected reserved word %q", tok.Lexeme)
		return nil
	}
	if !p.enter() {
		return nil
	}
	defer p.leave()

	rules := []func() ast.Node{
		p.blockStatement,
		p.variableStatement,
		p.emptyStatement,
		p.ifStatement,
		p.whileStatement,
		p.breakStatement,
		p.continueStatement,
		p.returnStatement,
		p.expressionStatement,
	}
	for _, rule := range rules {
		if n := rule(); n != nil {
			return n
		}
		if p.err != nil {
			return nil
		}
	}
	return nil
}

func (p *Parser) block() *ast.Block {
	start := p.pos
	tok := p.peek()
	if !p.match("{") {
		return nil
	}
	b := &ast.Block{Token: tok}
	for p.err == nil && !p.peek().Is("}") && p.peek().Kind != token.EOF {
		stmt := p.statement()
		if stmt == nil {
			break
		}
		b.Body = append(b.Body, stmt)
	}
	if p.err != nil || !p.match("}") {
		p.pos = start
		return nil
	}
	return b
}

func (p *Parser) blockStatement() ast.Node {
	if b := p.block(); b != nil {
		return b
	}
	return nil
}

func (p *Parser) variableStatement() ast.Node {
	start := p.pos
	tok := p.peek()
	if !p.match("var") {
		return nil
	}
	decl := &ast.VariableDeclaration{Token: tok}
	for {
		id := p.peek()
		if id.Kind != token.Identifier {
			p.pos = start
			return nil
		}
		p.advance()
		d := &ast.VariableDeclarator{Token: id, Name: id.Lexeme}
		if p.match("=") {
			init := p.assignment()
			if init == nil {
				p.pos = start
				return nil
			}
			d.Init = init
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.match(",") {
			break
		}
	}
	if !p.match(";") {
		p.pos = start
		return nil
	}
	return decl
}

func (p *Parser) emptyStatement() ast.Node {
	tok := p.peek()
	if p.match(";") {
		return &ast.Empty{Token: tok}
	}
	return nil
}

func (p *Parser) ifStatement() ast.Node {
	start := p.pos
	tok := p.peek()
	if !p.match("if") || !p.match("(") {
		p.pos = start
		return nil
	}
	cond := p.expression()
	if cond == nil || !p.match(")") {
		p.pos = start
		return nil
	}
	then := p.statement()
	if then == nil {
		p.pos = start
		return nil
	}
	node := &ast.IfExpression{Token: tok, Condition: cond, Then: then}
	if p.match("else") {
		alt := p.statement()
		if alt == nil {
			p.pos = start
			return nil
		}
		node.Else = alt
	}
	return node
}

func (p *Parser) whileStatement() ast.Node {
	start := p.pos
	tok := p.peek()
	if !p.match("while") || !p.match("(") {
		p.pos = start
		return nil
	}
	cond := p.expression()
	if cond == nil || !p.match(")") {
		p.pos = start
		return nil
	}
	p.loops++
	body := p.statement()
	p.loops--
	if body == nil {
		p.pos = start
		return nil
	}
	return &ast.WhileExpression{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) breakStatement() ast.Node {
	tok := p.peek()
	if !p.match("break") {
		return nil
	}
	if p.loops == 0 {
		p.fail(p.pos-1, "illegal break statement")
		return nil
	}
	if !p.match(";") {
		p.fail(p.pos, "expected ';' after break")
		return nil
	}
	return &ast.BreakStatement{Token: tok}
}

func (p *Parser) continueStatement() ast.Node {
	tok := p.peek()
	if !p.match("continue") {
		return nil
	}
	if p.loops == 0 {
		p.fail(p.pos-1, "illegal continue statement")
		return nil
	}
	if !p.match(";") {
		p.fail(p.pos, "expected ';' after continue")
		return nil
	}
	return &ast.ContinueStatement{Token: tok}
}

func (p *Parser) returnStatement() ast.Node {
	tok := p.peek()
	if !p.match("return") {
		return nil
	}
	if p.match(";") {
		return &ast.ReturnExpression{Token: tok, Value: &ast.Undefined{Token: tok}}
	}
	value := p.expression()
	if p.err != nil {
		return nil
	}
	if value == nil || !p.match(";") {
		p.fail(p.pos, "expected ';' after return")
		return nil
	}
	return &ast.ReturnExpression{Token: tok, Value: value}
}

func (p *Parser) expressionStatement() ast.Node {
	start := p.pos
	expr := p.expression()
	if expr == nil || !p.match(";") {
		p.pos = start
		return nil
	}
	return expr
}

func (p *Parser) functionDeclaration() ast.Node {
	start := p.pos
	tok := p.peek()
	if !p.match("function") {
		return nil
	}
	name := p.peek()
	if name.Kind != token.Identifier {
		p.pos = start
		return nil
	}
	p.advance()
	params, body, ok := p.functionRest()
	if !ok {
		p.pos = start
		return nil
	}
	return &ast.FunctionDeclaration{Token: tok, Name: name.Lexeme, Params: params, Body: body}
}

// functionRest parses the parameter list and body that follow the name.
func (p *Parser) functionRest() ([]string, *ast.Block, bool) {
	if !p.match("(") {
		return nil, nil, false
	}
	var params []string
	if !p.match(")") {
		for {
			id := p.peek()
			if id.Kind != token.Identifier {
				return nil, nil, false
			}
			p.advance()
			params = append(params, id.Lexeme)
			if p.match(")") {
				break
			}
			if !p.match(",") {
				return nil, nil, false
			}
		}
	}
	open := p.peek()
	if !p.match("{") {
		return nil, nil, false
	}
	loops := p.loops
	p.loops = 0
	body := p.sourceElements(open)
	p.loops = loops
	if p.err != nil || !p.match("}") {
		return nil, nil, false
	}
	return params, body, true
}

// ---------- expressions ----------

func (p *Parser) expression() ast.Node {
	return p.assignment()
}

func (p *Parser) assignment() ast.Node {
	if p.err != nil || !p.enter() {
		return nil
	}
	defer p.leave()

	start := p.pos
	if target := p.leftHandSide(); target != nil {
		opTok := p.peek()
		if opTok.Kind == token.Punctuator && assignOps[opTok.Lexeme] {
			p.advance()
			if value := p.assignment(); value != nil {
				if !isAssignable(target) {
					p.fail(start, "invalid assignment target")
					return nil
				}
				return &ast.AssignmentExpression{Token: opTok, Operator: opTok.Lexeme, Target: target, Value: value}
			}
		}
	}
	if p.err != nil {
		return nil
	}
	p.pos = start
	return p.conditional()
}

func isAssignable(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Ident:
		return true
	case *ast.MemberExpression:
		return n.Property != "" || n.Computed != nil
	}
	return false
}

func (p *Parser) conditional() ast.Node {
	test := p.binary(0)
	if test == nil {
		return nil
	}
	mark := p.pos
	tok := p.peek()
	if !p.match("?") {
		return test
	}
	cons := p.assignment()
	if cons == nil || !p.match(":") {
		p.pos = mark
		return test
	}
	alt := p.assignment()
	if alt == nil {
		p.pos = mark
		return test
	}
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: cons, Alternate: alt}
}

// binary parses one precedence level as Operand Tail?. The tail comes back
// right-nested with an empty leftmost slot, and the first operand is then
// attached there, which yields the left-associated tree.
func (p *Parser) binary(level int) ast.Node {
	if level == len(levels) {
		return p.unary()
	}
	start := p.pos
	first := p.binary(level + 1)
	if first == nil {
		p.pos = start
		return nil
	}
	tail := p.binaryTail(level)
	if tail == nil {
		return first
	}
	attachLeft(tail, first)
	return tail
}

func (p *Parser) binaryTail(level int) ast.Node {
	start := p.pos
	opTok := p.peek()
	if !levels[level].has(opTok) {
		return nil
	}
	p.advance()
	operand := p.binary(level + 1)
	if operand == nil {
		p.pos = start
		return nil
	}
	var node ast.Node
	if levels[level].logical {
		node = &ast.LogicalExpression{Token: opTok, Operator: opTok.Lexeme, Right: operand}
	} else {
		node = &ast.BinaryExpression{Token: opTok, Operator: opTok.Lexeme, Right: operand}
	}
	rest := p.binaryTail(level)
	if rest == nil {
		return node
	}
	attachLeft(rest, node)
	return rest
}

func attachLeft(chain, operand ast.Node) {
	for {
		switch n := chain.(type) {
		case *ast.BinaryExpression:
			if n.Left == nil {
				n.Left = operand
				return
			}
			chain = n.Left
		case *ast.LogicalExpression:
			if n.Left == nil {
				n.Left = operand
				return
			}
			chain = n.Left
		default:
			return
		}
	}
}

func (p *Parser) unary() ast.Node {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	start := p.pos
	tok := p.peek()
	if tok.Is("++") || tok.Is("--") {
		p.advance()
		target := p.unary()
		if target == nil {
			p.pos = start
			return nil
		}
		if !isAssignable(target) {
			p.fail(start, "invalid %s operand", tok.Lexeme)
			return nil
		}
		return &ast.UpdateExpression{Token: tok, Operator: tok.Lexeme, Prefix: true, Target: target}
	}
	if (tok.Kind == token.Keyword || tok.Kind == token.Punctuator) && unaryOps[tok.Lexeme] {
		p.advance()
		operand := p.unary()
		if operand == nil {
			p.pos = start
			return nil
		}
		return &ast.UnaryExpression{Token: tok, Operator: tok.Lexeme, Operand: operand}
	}
	return p.postfix()
}

func (p *Parser) postfix() ast.Node {
	target := p.leftHandSide()
	if target == nil {
		return nil
	}
	tok := p.peek()
	if tok.Is("++") || tok.Is("--") {
		if !isAssignable(target) {
			p.fail(p.pos, "invalid %s operand", tok.Lexeme)
			return nil
		}
		p.advance()
		return &ast.UpdateExpression{Token: tok, Operator: tok.Lexeme, Target: target}
	}
	return target
}

func (p *Parser) leftHandSide() ast.Node {
	start := p.pos
	if e, ok := p.lhsMemo[start]; ok {
		p.pos = e.end
		return e.node
	}
	node := p.callExpression()
	if node == nil && p.err == nil {
		p.pos = start
		node = p.newExpression()
	}
	if node == nil {
		p.pos = start
	}
	if p.err == nil {
		p.lhsMemo[start] = memoEntry{node: node, end: p.pos}
	}
	return node
}

type callSuffix struct {
	args   *ast.Arguments
	member *ast.MemberExpression
}

// callExpression parses a member expression followed by at least one argument
// group. Every further group becomes another CallExpression hop around the
// previous result.
func (p *Parser) callExpression() ast.Node {
	start := p.pos
	callee := p.member()
	if callee == nil {
		return nil
	}
	args := p.arguments()
	if args == nil {
		p.pos = start
		return nil
	}
	var node ast.Node = &ast.CallExpression{Token: args.Token, Callee: callee, Arguments: args}
	for _, s := range p.callTail() {
		if s.args != nil {
			node = &ast.CallExpression{Token: s.args.Token, Callee: node, Arguments: s.args}
			continue
		}
		s.member.Object = node
		node = s.member
	}
	return node
}

func (p *Parser) callTail() []callSuffix {
	var s callSuffix
	if args := p.arguments(); args != nil {
		s.args = args
	} else if m := p.memberSuffix(); m != nil {
		s.member = m
	} else {
		return nil
	}
	return append([]callSuffix{s}, p.callTail()...)
}

func (p *Parser) newExpression() ast.Node {
	start := p.pos
	if m := p.member(); m != nil {
		return m
	}
	tok := p.peek()
	if !p.match("new") {
		p.pos = start
		return nil
	}
	callee := p.newExpression()
	if callee == nil {
		p.pos = start
		return nil
	}
	return &ast.NewExpression{Token: tok, Callee: callee}
}

func (p *Parser) member() ast.Node {
	start := p.pos
	if e, ok := p.memberMemo[start]; ok {
		p.pos = e.end
		return e.node
	}
	node := p.parseMember()
	if node == nil {
		p.pos = start
	}
	if p.err == nil {
		p.memberMemo[start] = memoEntry{node: node, end: p.pos}
	}
	return node
}

func (p *Parser) parseMember() ast.Node {
	start := p.pos
	var base ast.Node
	if tok := p.peek(); tok.Is("new") {
		p.advance()
		if callee := p.member(); callee != nil {
			if args := p.arguments(); args != nil {
				base = &ast.NewExpression{Token: tok, Callee: callee, Arguments: args}
			}
		}
		if base == nil {
			p.pos = start
		}
	}
	if base == nil {
		base = p.primary()
	}
	if base == nil {
		return nil
	}
	if tail := p.memberTail(); tail != nil {
		attachObject(tail, base)
		return tail
	}
	return base
}

func (p *Parser) memberTail() *ast.MemberExpression {
	m := p.memberSuffix()
	if m == nil {
		return nil
	}
	rest := p.memberTail()
	if rest == nil {
		return m
	}
	attachObject(rest, m)
	return rest
}

func attachObject(chain *ast.MemberExpression, obj ast.Node) {
	for chain.Object != nil {
		chain = chain.Object.(*ast.MemberExpression)
	}
	chain.Object = obj
}

func (p *Parser) memberSuffix() *ast.MemberExpression {
	start := p.pos
	tok := p.peek()
	if p.match(".") {
		name := p.peek()
		switch name.Kind {
		case token.Identifier, token.Keyword, token.Boolean, token.Null:
			p.advance()
			return &ast.MemberExpression{Token: tok, Property: name.Lexeme}
		}
		p.pos = start
		return nil
	}
	if p.match("[") {
		expr := p.expression()
		if expr == nil || !p.match("]") {
			p.pos = start
			return nil
		}
		return &ast.MemberExpression{Token: tok, Computed: expr}
	}
	return nil
}

func (p *Parser) arguments() *ast.Arguments {
	start := p.pos
	tok := p.peek()
	if !p.match("(") {
		return nil
	}
	args := &ast.Arguments{Token: tok}
	if p.match(")") {
		return args
	}
	for {
		a := p.assignment()
		if a == nil {
			p.pos = start
			return nil
		}
		args.List = append(args.List, a)
		if p.match(")") {
			return args
		}
		if !p.match(",") {
			p.pos = start
			return nil
		}
	}
}

func (p *Parser) primary() ast.Node {
	start := p.pos
	tok := p.peek()
	switch tok.Kind {
	case token.Identifier:
		p.advance()
		return &ast.Ident{Token: tok, Name: tok.Lexeme}
	case token.Number:
		p.advance()
		return &ast.Number{Token: tok, Text: tok.Lexeme}
	case token.String:
		p.advance()
		return &ast.String{Token: tok, Value: tok.Lexeme}
	case token.Boolean:
		p.advance()
		return &ast.Boolean{Token: tok, Value: tok.Lexeme == "true"}
	case token.Null:
		p.advance()
		return &ast.Null{Token: tok}
	}

	switch {
	case tok.Is("this"):
		p.advance()
		return &ast.This{Token: tok}
	case tok.Is("function"):
		p.advance()
		fn := &ast.FunctionExpression{Token: tok}
		if name := p.peek(); name.Kind == token.Identifier {
			p.advance()
			fn.Name = name.Lexeme
		}
		params, body, ok := p.functionRest()
		if !ok {
			p.pos = start
			return nil
		}
		fn.Params, fn.Body = params, body
		return fn
	case tok.Is("("):
		p.advance()
		expr := p.expression()
		if expr == nil || !p.match(")") {
			p.pos = start
			return nil
		}
		return expr
	case tok.Is("{"):
		p.advance()
		if !p.match("}") {
			p.pos = start
			return nil
		}
		return &ast.Object{Token: tok}
	}
	return nil
}
