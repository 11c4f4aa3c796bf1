package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/esengine/token"
)

func TestDump(t *testing.T) {
	pos := func(line, col int) token.Token {
		return token.Token{Line: line, Column: col}
	}
	tree := &Block{
		Token: pos(1, 1),
		Body: []Node{
			&VariableDeclaration{
				Token: pos(1, 1),
				Declarations: []*VariableDeclarator{
					{Token: pos(1, 5), Name: "x"},
				},
			},
			&CallExpression{
				Token:  pos(2, 2),
				Callee: &Ident{Token: pos(2, 1), Name: "f"},
				Arguments: &Arguments{
					Token: pos(2, 2),
					List:  []Node{&Number{Token: pos(2, 3), Text: "1"}},
				},
			},
		},
	}

	want := map[string]any{
		"type": "Block", "line": 1, "column": 1,
		"body": []any{
			map[string]any{
				"type": "VariableDeclaration", "line": 1, "column": 1,
				"declarations": []any{
					map[string]any{"line": 1, "column": 5, "name": "x", "init": nil},
				},
			},
			map[string]any{
				"type": "CallExpression", "line": 2, "column": 2,
				"callee": map[string]any{"type": "Ident", "line": 2, "column": 1, "name": "f"},
				"arguments": map[string]any{
					"type": "Arguments", "line": 2, "column": 2,
					"list": []any{
						map[string]any{"type": "Number", "line": 2, "column": 3, "text": "1"},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, Dump(tree)); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpNil(t *testing.T) {
	if got := Dump(nil); got != nil {
		t.Errorf("Dump(nil) = %v, want nil", got)
	}
	empty := Dump(&Block{})
	if diff := cmp.Diff(map[string]any{"type": "Block", "line": 0, "column": 0, "body": []any{}}, empty); diff != "" {
		t.Errorf("Dump(empty) mismatch (-want +got):\n%s", diff)
	}
}
