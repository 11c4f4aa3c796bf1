package token

import "fmt"

type Kind int

const (
	Illegal Kind = iota
	EOF
	Identifier
	Keyword
	Punctuator
	Number
	String
	Boolean
	Null
)

var kindNames = map[Kind]string{
	Illegal:    "Illegal",
	EOF:        "EOF",
	Identifier: "Identifier",
	Keyword:    "Keyword",
	Punctuator: "Punctuator",
	Number:     "Number",
	String:     "String",
	Boolean:    "Boolean",
	Null:       "Null",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one element of the stream consumed by the parser. Lexeme holds the
// source text for identifiers, keywords, punctuators and numbers, and the
// decoded value for strings.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

// Is reports whether t is the keyword or punctuator spelled lexeme.
func (t Token) Is(lexeme string) bool {
	return (t.Kind == Keyword || t.Kind == Punctuator) && t.Lexeme == lexeme
}

var Keywords = map[string]Kind{
	"var":        Keyword,
	"function":   Keyword,
	"return":     Keyword,
	"if":         Keyword,
	"else":       Keyword,
	"while":      Keyword,
	"for":        Keyword,
	"do":         Keyword,
	"break":      Keyword,
	"continue":   Keyword,
	"switch":     Keyword,
	"case":       Keyword,
	"default":    Keyword,
	"throw":      Keyword,
	"try":        Keyword,
	"catch":      Keyword,
	"finally":    Keyword,
	"new":        Keyword,
	"delete":     Keyword,
	"typeof":     Keyword,
	"void":       Keyword,
	"in":         Keyword,
	"instanceof": Keyword,
	"this":       Keyword,
	"with":       Keyword,
	"class":      Keyword,
	"const":      Keyword,
	"enum":       Keyword,
	"export":     Keyword,
	"extends":    Keyword,
	"import":     Keyword,
	"super":      Keyword,
	"debugger":   Keyword,
	"true":       Boolean,
	"false":      Boolean,
	"null":       Null,
}

func LookupIdentifier(ident string) Kind {
	if kind, ok := Keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Punctuators lists every operator and delimiter, longest first so a lexer can
// take the first prefix match.
var Punctuators = []string{
	">>>=",
	"===", "!==", ">>>", "<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"{", "}", "(", ")", "[", "]", ".", ";", ",", "<", ">",
	"+", "-", "*", "/", "%", "&", "|", "^", "!", "~", "?", ":", "=",
}
