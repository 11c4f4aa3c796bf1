package ast

import "github.com/example/esengine/token"

type NodeKind int

const (
	KindUndefined NodeKind = iota
	KindNull
	KindBoolean
	KindString
	KindNumber
	KindIdent
	KindThis
	KindObject
	KindBlock
	KindEmpty
	KindVariableDeclaration
	KindAssignmentExpression
	KindIfExpression
	KindWhileExpression
	KindReturnExpression
	KindBreakStatement
	KindContinueStatement
	KindFunctionDeclaration
	KindFunctionExpression
	KindMemberExpression
	KindBinaryExpression
	KindLogicalExpression
	KindUnaryExpression
	KindUpdateExpression
	KindConditionalExpression
	KindArguments
	KindCallExpression
	KindNewExpression
)

var kindNames = [...]string{
	KindUndefined:             "Undefined",
	KindNull:                  "Null",
	KindBoolean:               "Boolean",
	KindString:                "String",
	KindNumber:                "Number",
	KindIdent:                 "Ident",
	KindThis:                  "This",
	KindObject:                "Object",
	KindBlock:                 "Block",
	KindEmpty:                 "Empty",
	KindVariableDeclaration:   "VariableDeclaration",
	KindAssignmentExpression:  "AssignmentExpression",
	KindIfExpression:          "IfExpression",
	KindWhileExpression:       "WhileExpression",
	KindReturnExpression:      "ReturnExpression",
	KindBreakStatement:        "BreakStatement",
	KindContinueStatement:     "ContinueStatement",
	KindFunctionDeclaration:   "FunctionDeclaration",
	KindFunctionExpression:    "FunctionExpression",
	KindMemberExpression:      "MemberExpression",
	KindBinaryExpression:      "BinaryExpression",
	KindLogicalExpression:     "LogicalExpression",
	KindUnaryExpression:       "UnaryExpression",
	KindUpdateExpression:      "UpdateExpression",
	KindConditionalExpression: "ConditionalExpression",
	KindArguments:             "Arguments",
	KindCallExpression:        "CallExpression",
	KindNewExpression:         "NewExpression",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is the closed set of tree shapes produced by the parser. The unexported
// marker keeps other packages from adding variants, so a type switch over the
// structs below is exhaustive.
type Node interface {
	Kind() NodeKind
	Pos() token.Token
	node()
}

// ---------- Literals ----------

type Undefined struct {
	Token token.Token
}

type Null struct {
	Token token.Token
}

type Boolean struct {
	Token token.Token
	Value bool
}

type String struct {
	Token token.Token
	Value string
}

// Number keeps the source text; conversion happens at evaluation time.
type Number struct {
	Token token.Token
	Text  string
}

type Ident struct {
	Token token.Token
	Name  string
}

type This struct {
	Token token.Token
}

// Object is the empty object literal {}.
type Object struct {
	Token token.Token
}

// ---------- Statements ----------

type Block struct {
	Token token.Token
	Body  []Node
}

type Empty struct {
	Token token.Token
}

type VariableDeclaration struct {
	Token        token.Token
	Declarations []*VariableDeclarator
}

type VariableDeclarator struct {
	Token token.Token
	Name  string
	Init  Node // may be nil
}

type IfExpression struct {
	Token     token.Token
	Condition Node
	Then      Node
	Else      Node // may be nil
}

type WhileExpression struct {
	Token     token.Token
	Condition Node
	Body      Node
}

type ReturnExpression struct {
	Token token.Token
	Value Node
}

type BreakStatement struct {
	Token token.Token
}

type ContinueStatement struct {
	Token token.Token
}

type FunctionDeclaration struct {
	Token  token.Token
	Name   string
	Params []string
	Body   *Block
}

type FunctionExpression struct {
	Token  token.Token
	Name   string // may be empty
	Params []string
	Body   *Block
}

// ---------- Expressions ----------

type AssignmentExpression struct {
	Token    token.Token
	Operator string
	Target   Node
	Value    Node
}

// MemberExpression reads Property from Object, or the value of Computed when
// it is set. With neither, it evaluates to Object itself.
type MemberExpression struct {
	Token    token.Token
	Object   Node
	Property string
	Computed Node
}

type BinaryExpression struct {
	Token    token.Token
	Operator string
	Left     Node
	Right    Node
}

type LogicalExpression struct {
	Token    token.Token
	Operator string
	Left     Node
	Right    Node
}

type UnaryExpression struct {
	Token    token.Token
	Operator string
	Operand  Node
}

type UpdateExpression struct {
	Token    token.Token
	Operator string
	Prefix   bool
	Target   Node
}

type ConditionalExpression struct {
	Token      token.Token
	Test       Node
	Consequent Node
	Alternate  Node
}

type Arguments struct {
	Token token.Token
	List  []Node
}

// CallExpression is one call hop. f(a)(b) nests as Call(Call(f, a), b).
type CallExpression struct {
	Token     token.Token
	Callee    Node
	Arguments *Arguments
}

type NewExpression struct {
	Token     token.Token
	Callee    Node
	Arguments *Arguments // nil for `new F` without parentheses
}

func (*Undefined) Kind() NodeKind             { return KindUndefined }
func (*Null) Kind() NodeKind                  { return KindNull }
func (*Boolean) Kind() NodeKind               { return KindBoolean }
func (*String) Kind() NodeKind                { return KindString }
func (*Number) Kind() NodeKind                { return KindNumber }
func (*Ident) Kind() NodeKind                 { return KindIdent }
func (*This) Kind() NodeKind                  { return KindThis }
func (*Object) Kind() NodeKind                { return KindObject }
func (*Block) Kind() NodeKind                 { return KindBlock }
func (*Empty) Kind() NodeKind                 { return KindEmpty }
func (*VariableDeclaration) Kind() NodeKind   { return KindVariableDeclaration }
func (*AssignmentExpression) Kind() NodeKind  { return KindAssignmentExpression }
func (*IfExpression) Kind() NodeKind          { return KindIfExpression }
func (*WhileExpression) Kind() NodeKind       { return KindWhileExpression }
func (*ReturnExpression) Kind() NodeKind      { return KindReturnExpression }
func (*BreakStatement) Kind() NodeKind        { return KindBreakStatement }
func (*ContinueStatement) Kind() NodeKind     { return KindContinueStatement }
func (*FunctionDeclaration) Kind() NodeKind   { return KindFunctionDeclaration }
func (*FunctionExpression) Kind() NodeKind    { return KindFunctionExpression }
func (*MemberExpression) Kind() NodeKind      { return KindMemberExpression }
func (*BinaryExpression) Kind() NodeKind      { return KindBinaryExpression }
func (*LogicalExpression) Kind() NodeKind     { return KindLogicalExpression }
func (*UnaryExpression) Kind() NodeKind       { return KindUnaryExpression }
func (*UpdateExpression) Kind() NodeKind      { return KindUpdateExpression }
func (*ConditionalExpression) Kind() NodeKind { return KindConditionalExpression }
func (*Arguments) Kind() NodeKind             { return KindArguments }
func (*CallExpression) Kind() NodeKind        { return KindCallExpression }
func (*NewExpression) Kind() NodeKind         { return KindNewExpression }

func (n *Undefined) Pos() token.Token             { return n.Token }
func (n *Null) Pos() token.Token                  { return n.Token }
func (n *Boolean) Pos() token.Token               { return n.Token }
func (n *String) Pos() token.Token                { return n.Token }
func (n *Number) Pos() token.Token                { return n.Token }
func (n *Ident) Pos() token.Token                 { return n.Token }
func (n *This) Pos() token.Token                  { return n.Token }
func (n *Object) Pos() token.Token                { return n.Token }
func (n *Block) Pos() token.Token                 { return n.Token }
func (n *Empty) Pos() token.Token                 { return n.Token }
func (n *VariableDeclaration) Pos() token.Token   { return n.Token }
func (n *AssignmentExpression) Pos() token.Token  { return n.Token }
func (n *IfExpression) Pos() token.Token          { return n.Token }
func (n *WhileExpression) Pos() token.Token       { return n.Token }
func (n *ReturnExpression) Pos() token.Token      { return n.Token }
func (n *BreakStatement) Pos() token.Token        { return n.Token }
func (n *ContinueStatement) Pos() token.Token     { return n.Token }
func (n *FunctionDeclaration) Pos() token.Token   { return n.Token }
func (n *FunctionExpression) Pos() token.Token    { return n.Token }
func (n *MemberExpression) Pos() token.Token      { return n.Token }
func (n *BinaryExpression) Pos() token.Token      { return n.Token }
func (n *LogicalExpression) Pos() token.Token     { return n.Token }
func (n *UnaryExpression) Pos() token.Token       { return n.Token }
func (n *UpdateExpression) Pos() token.Token      { return n.Token }
func (n *ConditionalExpression) Pos() token.Token { return n.Token }
func (n *Arguments) Pos() token.Token             { return n.Token }
func (n *CallExpression) Pos() token.Token        { return n.Token }
func (n *NewExpression) Pos() token.Token         { return n.Token }

func (*Undefined) node()             {}
func (*Null) node()                  {}
func (*Boolean) node()               {}
func (*String) node()                {}
func (*Number) node()                {}
func (*Ident) node()                 {}
func (*This) node()                  {}
func (*Object) node()                {}
func (*Block) node()                 {}
func (*Empty) node()                 {}
func (*VariableDeclaration) node()   {}
func (*AssignmentExpression) node()  {}
func (*IfExpression) node()          {}
func (*WhileExpression) node()       {}
func (*ReturnExpression) node()      {}
func (*BreakStatement) node()        {}
func (*ContinueStatement) node()     {}
func (*FunctionDeclaration) node()   {}
func (*FunctionExpression) node()    {}
func (*MemberExpression) node()      {}
func (*BinaryExpression) node()      {}
func (*LogicalExpression) node()     {}
func (*UnaryExpression) node()       {}
func (*UpdateExpression) node()      {}
func (*ConditionalExpression) node() {}
func (*Arguments) node()             {}
func (*CallExpression) node()        {}
func (*NewExpression) node()         {}
