package domain_test

import (
	"testing"

	"github.com/fulfillops/fulfillment_crm_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFinTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      domain.FinTransaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid posting",
			tx: domain.FinTransaction{
				TransactionID:   "txn_123",
				DebitAccountID:  "acc_debit",
				CreditAccountID: "acc_credit",
				Amount:          decimal.NewFromInt(500),
			},
			wantErr: false,
		},
		{
			name: "missing debit account",
			tx: domain.FinTransaction{
				TransactionID:   "txn_123",
				CreditAccountID: "acc_credit",
				Amount:          decimal.NewFromInt(500),
			},
			wantErr: true,
			errMsg:  "both debit and credit accounts are required",
		},
		{
			name: "identical debit and credit accounts",
			tx: domain.FinTransaction{
				TransactionID:   "txn_123",
				DebitAccountID:  "acc_same",
				CreditAccountID: "acc_same",
				Amount:          decimal.NewFromInt(500),
			},
			wantErr: true,
			errMsg:  "debit and credit accounts must differ",
		},
		{
			name: "zero amount",
			tx: domain.FinTransaction{
				TransactionID:   "txn_123",
				DebitAccountID:  "acc_debit",
				CreditAccountID: "acc_credit",
				Amount:          decimal.Zero,
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
		{
			name: "negative amount",
			tx: domain.FinTransaction{
				TransactionID:   "txn_123",
				DebitAccountID:  "acc_debit",
				CreditAccountID: "acc_credit",
				Amount:          decimal.NewFromInt(-10),
			},
			wantErr: true,
			errMsg:  "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFinTransaction_IsReversal(t *testing.T) {
	original := "txn_original"

	tests := []struct {
		name string
		tx   domain.FinTransaction
		want bool
	}{
		{
			name: "plain posting",
			tx:   domain.FinTransaction{TransactionID: "txn_1"},
			want: false,
		},
		{
			name: "reversal posting",
			tx:   domain.FinTransaction{TransactionID: "txn_2", ReversalOfID: &original},
			want: true,
		},
		{
			name: "empty reversal link",
			tx:   domain.FinTransaction{TransactionID: "txn_3", ReversalOfID: strPtr("")},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.tx.IsReversal())
		})
	}
}

func strPtr(s string) *string {
	return &s
}
