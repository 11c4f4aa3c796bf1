package runtime

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ToNumber implements the ECMAScript ToNumber abstract operation.
func (v *Value) ToNumber() float64 {
	switch v.Type {
	case TypeUndefined:
		return math.NaN()
	case TypeNull:
		return 0
	case TypeBoolean:
		if v.Bool {
			return 1
		}
		return 0
	case TypeNumber:
		return v.Number
	case TypeString:
		return StringToNumber(v.Str)
	case TypeReference:
		return v.Deref().ToNumber()
	default:
		return math.NaN()
	}
}

// StringToNumber converts numeric text using invariant formatting: decimal
// literals with optional exponent, 0x hex integers, and signed Infinity.
// Anything else is NaN.
func StringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n := 0.0
		for _, c := range s[2:] {
			d := hexDigit(c)
			if d < 0 {
				return math.NaN()
			}
			n = n*16 + float64(d)
		}
		return n
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return math.NaN()
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return math.NaN()
	}
	return n
}

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// NumberToString renders a number the way ECMAScript's Number::toString does:
// plain decimal notation for exponents in [-7, 21), scientific otherwise.
func NumberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	case n < 0:
		return "-" + NumberToString(-n)
	}

	mant, expText, _ := strings.Cut(strconv.FormatFloat(n, 'e', -1, 64), "e")
	exp, _ := strconv.Atoi(expText)
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	point := exp + 1

	switch {
	case k <= point && point <= 21:
		return digits + strings.Repeat("0", point-k)
	case 0 < point && point <= 21:
		return digits[:point] + "." + digits[point:]
	case -6 < point && point <= 0:
		return "0." + strings.Repeat("0", -point) + digits
	}

	sign := "+"
	if point-1 < 0 {
		sign = "-"
	}
	e := strconv.Itoa(abs(point - 1))
	if k == 1 {
		return digits + "e" + sign + e
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + e
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ToInt32 implements the ECMAScript ToInt32 abstract operation.
func (v *Value) ToInt32() int32 {
	return int32(v.ToUint32())
}

// ToUint32 implements the ECMAScript ToUint32 abstract operation.
func (v *Value) ToUint32() uint32 {
	n := v.ToNumber()
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	n = math.Mod(math.Trunc(n), 4294967296)
	if n < 0 {
		n += 4294967296
	}
	return uint32(n)
}

// StrictEquals implements === comparison.
func StrictEquals(a, b *Value) bool {
	a, b = a.Deref(), b.Deref()
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return a.Bool == b.Bool
	case TypeNumber:
		if math.IsNaN(a.Number) || math.IsNaN(b.Number) {
			return false
		}
		return a.Number == b.Number
	case TypeString:
		return a.Str == b.Str
	case TypeObject:
		return a.Object == b.Object
	default:
		return false
	}
}

// AbstractEquals implements == comparison. Objects are only equal to
// themselves; there is no conversion of objects to primitives.
func AbstractEquals(a, b *Value) bool {
	a, b = a.Deref(), b.Deref()
	if a.Type == b.Type {
		return StrictEquals(a, b)
	}
	if (a.Type == TypeNull && b.Type == TypeUndefined) ||
		(a.Type == TypeUndefined && b.Type == TypeNull) {
		return true
	}
	if a.Type == TypeNumber && b.Type == TypeString {
		return AbstractEquals(a, NewNumber(b.ToNumber()))
	}
	if a.Type == TypeString && b.Type == TypeNumber {
		return AbstractEquals(NewNumber(a.ToNumber()), b)
	}
	if a.Type == TypeBoolean {
		return AbstractEquals(NewNumber(a.ToNumber()), b)
	}
	if b.Type == TypeBoolean {
		return AbstractEquals(a, NewNumber(b.ToNumber()))
	}
	return false
}
