package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/esengine/runtime"
)

func (r *Realm) registerGlobals() {
	setConstant(r.Global, "undefined", runtime.Undefined)
	setConstant(r.Global, "NaN", runtime.NaN)
	setConstant(r.Global, "Infinity", runtime.PosInf)

	r.setMethod(r.Global, "parseInt", 2, globalParseInt)
	r.setMethod(r.Global, "parseFloat", 1, globalParseFloat)
	r.setMethod(r.Global, "isNaN", 1, globalIsNaN)
	r.setMethod(r.Global, "isFinite", 1, globalIsFinite)
}

func globalParseInt(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	s := strings.TrimSpace(argAt(args, 0).ToString())
	radix := int(argAt(args, 1).ToInt32())

	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if radix == 0 {
		radix = 10
		if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
			radix = 16
			s = s[2:]
		}
	} else if radix == 16 && len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if radix < 2 || radix > 36 {
		return runtime.NaN, nil
	}

	n, digits := 0.0, 0
	for _, c := range s {
		d := digitValue(c)
		if d < 0 || d >= radix {
			break
		}
		n = n*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return runtime.NaN, nil
	}
	if neg {
		n = -n
	}
	return runtime.NewNumber(n), nil
}

func digitValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// globalParseFloat reads the longest prefix that forms a decimal literal.
func globalParseFloat(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	s := strings.TrimSpace(argAt(args, 0).ToString())
	body := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(body, "Infinity") {
		if strings.HasPrefix(s, "-") {
			return runtime.NegInf, nil
		}
		return runtime.PosInf, nil
	}

	end, digits := 0, 0
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
		end = i + 1
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
			end = i + 1
		}
	}
	if digits == 0 {
		return runtime.NaN, nil
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			end = j
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil && !math.IsInf(n, 0) {
		return runtime.NaN, nil
	}
	return runtime.NewNumber(n), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func globalIsNaN(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	return runtime.NewBool(math.IsNaN(argAt(args, 0).ToNumber())), nil
}

func globalIsFinite(this *runtime.Object, args []*runtime.Value) (*runtime.Value, error) {
	n := argAt(args, 0).ToNumber()
	return runtime.NewBool(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
}
