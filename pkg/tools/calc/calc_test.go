package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	cases := map[string]string{
		"15 * 23":        "15 * 23 = 345",
		"2 + 3 * 4":      "2 + 3 * 4 = 14",
		"(2 + 3) * 4":    "(2 + 3) * 4 = 20",
		"10 / 4":         "10 / 4 = 2.5",
		"2 ^ 10":         "2 ^ 10 = 1024",
		"2 ^ 3 ^ 2":      "2 ^ 3 ^ 2 = 512", // right-associative
		"-5 + 3":         "-5 + 3 = -2",
		"10 % 3":         "10 % 3 = 1",
		"  7 - 2  ":      "7 - 2 = 5",
		"-(2 + 3)":       "-(2 + 3) = -5",
		"1.5 * 2":        "1.5 * 2 = 3",
		"100 - 10 - 5":   "100 - 10 - 5 = 85", // left-associative
		"((((1)))) + 41": "((((1)))) + 41 = 42",
	}
	for expr, want := range cases {
		t.Run(expr, func(t *testing.T) {
			got, err := Evaluate(expr)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	for name, expr := range map[string]string{
		"Empty":           "",
		"Whitespace":      "   ",
		"DivisionByZero":  "1 / 0",
		"ModuloByZero":    "1 % 0",
		"UnclosedParen":   "(1 + 2",
		"TrailingGarbage": "1 + 2 abc",
		"Letters":         "rm -rf /",
		"DanglingOp":      "5 +",
		"DoubleDot":       "1.2.3 + 1",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Evaluate(expr)
			assert.Error(t, err)
		})
	}
}
