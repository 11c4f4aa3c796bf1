package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/esengine/ast"
	"github.com/example/esengine/lexer"
	"github.com/example/esengine/token"
)

var treeOpts = []cmp.Option{
	cmpopts.IgnoreTypes(token.Token{}),
	cmpopts.EquateEmpty(),
}

func parse(t *testing.T, input string) *ast.Block {
	t.Helper()
	program, err := ParseSource(input)
	require.NoError(t, err, "parse %q", input)
	return program
}

func expectBody(t *testing.T, input string, want ...ast.Node) {
	t.Helper()
	got := parse(t, input)
	if diff := cmp.Diff(want, got.Body, treeOpts...); diff != "" {
		t.Fatalf("tree mismatch for %q (-want +got):\n%s", input, diff)
	}
}

func expectSyntaxError(t *testing.T, input, msg string) *SyntaxError {
	t.Helper()
	_, err := ParseSource(input)
	require.Error(t, err, "expected syntax error for %q", input)
	var se *SyntaxError
	require.True(t, errors.As(err, &se), "expected *SyntaxError, got %T", err)
	assert.Contains(t, se.Msg, msg)
	return se
}

func num(text string) *ast.Number { return &ast.Number{Text: text} }
func ident(name string) *ast.Ident { return &ast.Ident{Name: name} }
func str(value string) *ast.String { return &ast.String{Value: value} }
func args(list ...ast.Node) *ast.Arguments {
	return &ast.Arguments{List: list}
}

func bin(op string, l, r ast.Node) *ast.BinaryExpression {
	return &ast.BinaryExpression{Operator: op, Left: l, Right: r}
}

func logical(op string, l, r ast.Node) *ast.LogicalExpression {
	return &ast.LogicalExpression{Operator: op, Left: l, Right: r}
}

func member(obj ast.Node, prop string) *ast.MemberExpression {
	return &ast.MemberExpression{Object: obj, Property: prop}
}

func call(callee ast.Node, a *ast.Arguments) *ast.CallExpression {
	return &ast.CallExpression{Callee: callee, Arguments: a}
}

func TestVariableDeclaration(t *testing.T) {
	expectBody(t, "var x = 1 + 2;", &ast.VariableDeclaration{
		Declarations: []*ast.VariableDeclarator{
			{Name: "x", Init: bin("+", num("1"), num("2"))},
		},
	})
}

func TestVariableDeclarationList(t *testing.T) {
	expectBody(t, "var a, b = 's';", &ast.VariableDeclaration{
		Declarations: []*ast.VariableDeclarator{
			{Name: "a"},
			{Name: "b", Init: str("s")},
		},
	})
}

func TestLeftAssociativity(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Node
	}{
		{"a - b - c;", bin("-", bin("-", ident("a"), ident("b")), ident("c"))},
		{"a / b * c % d;", bin("%", bin("*", bin("/", ident("a"), ident("b")), ident("c")), ident("d"))},
		{"1 + 2 * 3;", bin("+", num("1"), bin("*", num("2"), num("3")))},
		{"1 * 2 + 3;", bin("+", bin("*", num("1"), num("2")), num("3"))},
		{"a < b == c;", bin("==", bin("<", ident("a"), ident("b")), ident("c"))},
		{"a << 1 >> 2;", bin(">>", bin("<<", ident("a"), num("1")), num("2"))},
		{"a | b ^ c & d;", bin("|", ident("a"), bin("^", ident("b"), bin("&", ident("c"), ident("d"))))},
		{"a || b || c;", logical("||", logical("||", ident("a"), ident("b")), ident("c"))},
		{"a || b && c;", logical("||", ident("a"), logical("&&", ident("b"), ident("c")))},
		{"(1 + 2) * 3;", bin("*", bin("+", num("1"), num("2")), num("3"))},
		{"'x' in o;", bin("in", str("x"), ident("o"))},
		{"o instanceof F;", bin("instanceof", ident("o"), ident("F"))},
	}
	for _, tt := range tests {
		expectBody(t, tt.input, tt.want)
	}
}

func TestAssignmentOperators(t *testing.T) {
	for _, op := range []string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", ">>>=", "&=", "^=", "|="} {
		expectBody(t, "x "+op+" 1;", &ast.AssignmentExpression{Operator: op, Target: ident("x"), Value: num("1")})
	}
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	expectBody(t, "a = b = 3;", &ast.AssignmentExpression{
		Operator: "=",
		Target:   ident("a"),
		Value:    &ast.AssignmentExpression{Operator: "=", Target: ident("b"), Value: num("3")},
	})
}

func TestBacktrackingFromAssignmentToExpression(t *testing.T) {
	expectBody(t, "a.b + 1;", bin("+", member(ident("a"), "b"), num("1")))
	expectBody(t, "a.b = 1;", &ast.AssignmentExpression{Operator: "=", Target: member(ident("a"), "b"), Value: num("1")})
}

func TestMemberChains(t *testing.T) {
	expectBody(t, "a.b.c;", member(member(ident("a"), "b"), "c"))
	expectBody(t, "a[0].b;", member(&ast.MemberExpression{Object: ident("a"), Computed: num("0")}, "b"))
	expectBody(t, "o.new;", member(ident("o"), "new"))
}

func TestCallChains(t *testing.T) {
	expectBody(t, "f();", call(ident("f"), args()))
	expectBody(t, "f(a)(b);", call(call(ident("f"), args(ident("a"))), args(ident("b"))))
	expectBody(t, "f(1, 2)(3)(4);", call(call(call(ident("f"), args(num("1"), num("2"))), args(num("3"))), args(num("4"))))
	expectBody(t, "o.m(1).n();", call(member(call(member(ident("o"), "m"), args(num("1"))), "n"), args()))
}

func TestNewExpressions(t *testing.T) {
	expectBody(t, "new Foo(1);", &ast.NewExpression{Callee: ident("Foo"), Arguments: args(num("1"))})
	expectBody(t, "new Foo;", &ast.NewExpression{Callee: ident("Foo")})
	expectBody(t, "new a.B();", &ast.NewExpression{Callee: member(ident("a"), "B"), Arguments: args()})
	expectBody(t, "new Foo().x;", member(&ast.NewExpression{Callee: ident("Foo"), Arguments: args()}, "x"))
}

func TestUnaryAndUpdate(t *testing.T) {
	expectBody(t, "-x;", &ast.UnaryExpression{Operator: "-", Operand: ident("x")})
	expectBody(t, "!!x;", &ast.UnaryExpression{Operator: "!", Operand: &ast.UnaryExpression{Operator: "!", Operand: ident("x")}})
	expectBody(t, "typeof x;", &ast.UnaryExpression{Operator: "typeof", Operand: ident("x")})
	expectBody(t, "delete o.p;", &ast.UnaryExpression{Operator: "delete", Operand: member(ident("o"), "p")})
	expectBody(t, "++i;", &ast.UpdateExpression{Operator: "++", Prefix: true, Target: ident("i")})
	expectBody(t, "i--;", &ast.UpdateExpression{Operator: "--", Target: ident("i")})
	expectBody(t, "-a * b;", bin("*", &ast.UnaryExpression{Operator: "-", Operand: ident("a")}, ident("b")))
}

func TestConditional(t *testing.T) {
	expectBody(t, "a ? 1 : 2;", &ast.ConditionalExpression{Test: ident("a"), Consequent: num("1"), Alternate: num("2")})
}

func TestPrimaryLiterals(t *testing.T) {
	expectBody(t, "null; true; false; this; {};",
		&ast.Null{},
		&ast.Boolean{Value: true},
		&ast.Boolean{Value: false},
		&ast.This{},
		&ast.Block{},
		&ast.Empty{},
	)
	expectBody(t, "x = {};", &ast.AssignmentExpression{Operator: "=", Target: ident("x"), Value: &ast.Object{}})
}

func TestFunctionDeclaration(t *testing.T) {
	expectBody(t, "function add(a, b) { return a + b; }", &ast.FunctionDeclaration{
		Name:   "add",
		Params: []string{"a", "b"},
		Body: &ast.Block{Body: []ast.Node{
			&ast.ReturnExpression{Value: bin("+", ident("a"), ident("b"))},
		}},
	})
}

func TestNestedFunctionDeclarationAndExpression(t *testing.T) {
	expectBody(t, "function outer() { function inner() { return; } return inner; }", &ast.FunctionDeclaration{
		Name: "outer",
		Body: &ast.Block{Body: []ast.Node{
			&ast.FunctionDeclaration{Name: "inner", Body: &ast.Block{Body: []ast.Node{
				&ast.ReturnExpression{Value: &ast.Undefined{}},
			}}},
			&ast.ReturnExpression{Value: ident("inner")},
		}},
	})
	expectBody(t, "f = function (x) { return x; };", &ast.AssignmentExpression{
		Operator: "=",
		Target:   ident("f"),
		Value: &ast.FunctionExpression{Params: []string{"x"}, Body: &ast.Block{Body: []ast.Node{
			&ast.ReturnExpression{Value: ident("x")},
		}}},
	})
}

func TestIfElse(t *testing.T) {
	expectBody(t, "if (a) b; else { c; }", &ast.IfExpression{
		Condition: ident("a"),
		Then:      ident("b"),
		Else:      &ast.Block{Body: []ast.Node{ident("c")}},
	})
	expectBody(t, "if (a) if (b) c; else d;", &ast.IfExpression{
		Condition: ident("a"),
		Then:      &ast.IfExpression{Condition: ident("b"), Then: ident("c"), Else: ident("d")},
	})
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	expectBody(t, "while (5 > i) { i = i + 1; if (i) break; continue; }", &ast.WhileExpression{
		Condition: bin(">", num("5"), ident("i")),
		Body: &ast.Block{Body: []ast.Node{
			&ast.AssignmentExpression{Operator: "=", Target: ident("i"), Value: bin("+", ident("i"), num("1"))},
			&ast.IfExpression{Condition: ident("i"), Then: &ast.BreakStatement{}},
			&ast.ContinueStatement{},
		}},
	})
}

func TestEmptyStatementsAndProgram(t *testing.T) {
	expectBody(t, ";;", &ast.Empty{}, &ast.Empty{})
	assert.Empty(t, parse(t, "").Body)
}

func TestParseTokenStreamWithoutEOF(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Identifier, Lexeme: "x"},
		{Kind: token.Punctuator, Lexeme: ";"},
	}
	program, err := Parse(toks)
	require.NoError(t, err)
	if diff := cmp.Diff([]ast.Node{ident("x")}, program.Body, treeOpts...); diff != "" {
		t.Fatal(diff)
	}
}

func TestFatalSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"return 1", "expected ';' after return"},
		{"function f() { return a b; }", "expected ';' after return"},
		{"else;", `unexpected reserved word "else"`},
		{"if (a) try;", `unexpected reserved word "try"`},
		{"break;", "illegal break statement"},
		{"continue;", "illegal continue statement"},
		{"while (a) { function f() { break; } }", "illegal break statement"},
		{"1 = 2;", "invalid assignment target"},
		{"f() = 2;", "invalid assignment target"},
		{"++1;", "invalid ++ operand"},
		{"'abc", "unterminated string"},
	}
	for _, tt := range tests {
		expectSyntaxError(t, tt.input, tt.msg)
	}
}

func TestUnparsedTokensReportFurthestPosition(t *testing.T) {
	se := expectSyntaxError(t, "var x = 1;\nx + ;", `unexpected Punctuator ";"`)
	assert.Equal(t, 2, se.Token.Line)
	assert.Equal(t, 5, se.Token.Column)
	assert.True(t, strings.HasPrefix(se.Error(), "SyntaxError at 2:5"))
	assert.False(t, IsIncomplete(se))
}

func TestIncompleteInput(t *testing.T) {
	for _, input := range []string{"function f() {", "var x = 1", "while (x) {", "f(1,"} {
		_, err := ParseSource(input)
		require.Error(t, err, input)
		assert.True(t, IsIncomplete(err), "expected incomplete for %q, got %v", input, err)
	}
}

func TestDepthLimit(t *testing.T) {
	src := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50) + ";"
	_, err := Parse(lexer.Tokenize(src), WithMaxDepth(20))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds 20 levels")

	_, err = ParseSource(src)
	require.NoError(t, err)
}

func TestDeepParenthesesParseQuickly(t *testing.T) {
	src := strings.Repeat("(", 40) + "a.b(1)" + strings.Repeat(")", 40) + ";"
	program := parse(t, src)
	if diff := cmp.Diff([]ast.Node{call(member(ident("a"), "b"), args(num("1")))}, program.Body, treeOpts...); diff != "" {
		t.Fatal(diff)
	}
}
