package accounting

import (
	"fmt"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Balance sign convention for double-entry postings:
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)

// DebitDelta returns the signed balance change a debit of amount applies to
// an account of the given type.
func DebitDelta(accountType domain.AccountType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return amount, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// CreditDelta returns the signed balance change a credit of amount applies to
// an account of the given type.
func CreditDelta(accountType domain.AccountType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return amount.Neg(), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return amount, nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// PostingDeltas resolves both balance changes of a posting: the debit leg
// against the debit account's type and the credit leg against the credit
// account's type.
func PostingDeltas(debitType, creditType domain.AccountType, amount decimal.Decimal) (debitDelta, creditDelta decimal.Decimal, err error) {
	debitDelta, err = DebitDelta(debitType, amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("debit leg: %w", err)
	}
	creditDelta, err = CreditDelta(creditType, amount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("credit leg: %w", err)
	}
	return debitDelta, creditDelta, nil
}
