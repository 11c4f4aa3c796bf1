package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/esengine/config"
)

func TestNeedsMoreInput(t *testing.T) {
	depth := config.DefaultMaxParseDepth
	tests := []struct {
		src   string
		depth int
		want  bool
	}{
		{"function f() {", depth, true},
		{"var x = (1 +", depth, true},
		{"1;", depth, false},
		{"var = ;", depth, false},
		{"((((1", depth, true},
		{"((((1", 3, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, needsMoreInput(tt.src, tt.depth), "%q at depth %d", tt.src, tt.depth)
	}
}
