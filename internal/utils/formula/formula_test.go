package formula_test

import (
	"strings"
	"testing"

	"github.com/fulfillops/fulfillment_crm_app/internal/utils/formula"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vars() formula.Vars {
	return formula.Vars{
		ItemsCount:  decimal.NewFromInt(12),
		TotalWeight: decimal.NewFromFloat(7.5),
		TotalVolume: decimal.NewFromFloat(0.4),
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want decimal.Decimal
	}{
		{"plain number", "42", decimal.NewFromInt(42)},
		{"decimal number", "2.5", decimal.NewFromFloat(2.5)},
		{"addition", "2+3", decimal.NewFromInt(5)},
		{"subtraction", "10 - 4", decimal.NewFromInt(6)},
		{"multiplication", "6*7", decimal.NewFromInt(42)},
		{"division", "9/2", decimal.NewFromFloat(4.5)},
		{"precedence", "2+3*4", decimal.NewFromInt(14)},
		{"parentheses", "(2+3)*4", decimal.NewFromInt(20)},
		{"nested parentheses", "((1+1))*(2+(3))", decimal.NewFromInt(10)},
		{"unary minus", "-5+8", decimal.NewFromInt(3)},
		{"double unary minus", "--5", decimal.NewFromInt(5)},
		{"items count", "itemsCount", decimal.NewFromInt(12)},
		{"items count scaled", "itemsCount * 2", decimal.NewFromInt(24)},
		{"weight per item", "totalWeight / itemsCount", decimal.NewFromFloat(0.625)},
		{"all three variables", "itemsCount + totalWeight + totalVolume", decimal.NewFromFloat(19.9)},
		{"volume buffer", "totalVolume * 1.1", decimal.NewFromFloat(0.44)},
		{"whitespace everywhere", "  itemsCount   *  ( 1 + 0.5 ) ", decimal.NewFromInt(18)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formula.Eval(tt.expr, vars())
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"division by zero", "1/0"},
		{"division by zero variable", "itemsCount / (totalVolume - totalVolume)"},
		{"unknown identifier", "orderTotal * 2"},
		{"case sensitive identifiers", "ITEMSCOUNT"},
		{"function call", "max(1, 2)"},
		{"call on known identifier", "itemsCount(2)"},
		{"dangling operator", "1 +"},
		{"doubled operator", "2 ** 3"},
		{"missing closing paren", "(1 + 2"},
		{"stray closing paren", "1 + 2)"},
		{"malformed number", "1.2.3"},
		{"garbage", "import os"},
		{"disallowed character", "2 ^ 3"},
		{"statement injection", "1; drop"},
		{"too long", strings.Repeat("1+", 200) + "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := formula.Eval(tt.expr, vars())
			assert.Error(t, err)
		})
	}
}
