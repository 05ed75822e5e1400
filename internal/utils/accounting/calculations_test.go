package accounting_test

import (
	"testing"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/fulfillops/fulfillment_crm_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebitDelta(t *testing.T) {
	amount := decimal.NewFromInt(500)

	tests := []struct {
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{domain.Asset, amount},
		{domain.Expense, amount},
		{domain.Liability, amount.Neg()},
		{domain.Equity, amount.Neg()},
		{domain.Revenue, amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := accounting.DebitDelta(tt.accountType, amount)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCreditDelta(t *testing.T) {
	amount := decimal.NewFromInt(500)

	tests := []struct {
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{domain.Asset, amount.Neg()},
		{domain.Expense, amount.Neg()},
		{domain.Liability, amount},
		{domain.Equity, amount},
		{domain.Revenue, amount},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got, err := accounting.CreditDelta(tt.accountType, amount)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDelta_UnknownType(t *testing.T) {
	_, err := accounting.DebitDelta(domain.AccountType("PHANTOM"), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = accounting.CreditDelta(domain.AccountType("PHANTOM"), decimal.NewFromInt(1))
	assert.Error(t, err)

	_, _, err = accounting.PostingDeltas(domain.Asset, domain.AccountType("PHANTOM"), decimal.NewFromInt(1))
	assert.Error(t, err)
}

// naturalSign weights a balance by the side the account type grows on, so a
// balanced posting nets to zero across its two legs.
func naturalSign(t domain.AccountType) decimal.Decimal {
	switch t {
	case domain.Asset, domain.Expense:
		return decimal.NewFromInt(1)
	default:
		return decimal.NewFromInt(-1)
	}
}

func TestPostingDeltas_BooksAlwaysBalance(t *testing.T) {
	amount := decimal.NewFromInt(137)
	types := []domain.AccountType{domain.Asset, domain.Liability, domain.Revenue, domain.Expense, domain.Equity}

	for _, debitType := range types {
		for _, creditType := range types {
			t.Run(string(debitType)+"_"+string(creditType), func(t *testing.T) {
				debitDelta, creditDelta, err := accounting.PostingDeltas(debitType, creditType, amount)
				require.NoError(t, err)

				sum := debitDelta.Mul(naturalSign(debitType)).Add(creditDelta.Mul(naturalSign(creditType)))
				assert.True(t, sum.IsZero(), "deltas do not cancel: debit %s, credit %s", debitDelta, creditDelta)
			})
		}
	}
}

func TestPostingDeltas_DebitAssetCreditRevenue(t *testing.T) {
	// Recording a sale: cash up, revenue up.
	debitDelta, creditDelta, err := accounting.PostingDeltas(domain.Asset, domain.Revenue, decimal.NewFromInt(500))
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(500).Equal(debitDelta))
	assert.True(t, decimal.NewFromInt(500).Equal(creditDelta))
}
