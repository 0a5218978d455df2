package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

func TestValidator_Validate(t *testing.T) {
	balance := models.WalletBalance{
		Available: decimal.NewFromInt(10000),
		Pending:   decimal.Zero,
	}

	tests := []struct {
		name    string
		minimum decimal.Decimal
		raw     string
		fee     decimal.Decimal
		want    string
		wantErr error
	}{
		{
			name: "valid amount",
			raw:  "5000",
			fee:  decimal.NewFromInt(50),
			want: "5000",
		},
		{
			name: "valid decimal amount",
			raw:  "1234.56",
			fee:  decimal.Zero,
			want: "1234.56",
		},
		{
			name: "whitespace trimmed",
			raw:  "  250  ",
			fee:  decimal.Zero,
			want: "250",
		},
		{
			name:    "empty input",
			raw:     "",
			fee:     decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "non-numeric input",
			raw:     "12abc",
			fee:     decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			raw:     "0",
			fee:     decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			raw:     "-100",
			fee:     decimal.Zero,
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "below minimum",
			minimum: decimal.NewFromInt(1000),
			raw:     "999.99",
			fee:     decimal.Zero,
			wantErr: ErrBelowMinimum,
		},
		{
			name:    "exactly at minimum",
			minimum: decimal.NewFromInt(1000),
			raw:     "1000",
			fee:     decimal.Zero,
			want:    "1000",
		},
		{
			name:    "amount alone fits but fee overflows",
			raw:     "10000",
			fee:     decimal.NewFromInt(50),
			wantErr: ErrInsufficientBalance,
		},
		{
			name: "amount plus fee exactly equals available",
			raw:  "9950",
			fee:  decimal.NewFromInt(50),
			want: "9950",
		},
		{
			name:    "amount exceeds available",
			raw:     "10001",
			fee:     decimal.Zero,
			wantErr: ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(tt.minimum)
			got, err := v.Validate(tt.raw, balance, tt.fee)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestValidator_Parse(t *testing.T) {
	v := New(decimal.NewFromInt(1000))

	tests := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{raw: "1000", want: "1000"},
		{raw: "1500.50", want: "1500.5"},
		{raw: "999", wantErr: ErrBelowMinimum},
		{raw: "0", wantErr: ErrInvalidAmount},
		{raw: "nope", wantErr: ErrInvalidAmount},
		{raw: "", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		got, err := v.Parse(tt.raw)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, "raw %q", tt.raw)
			continue
		}
		assert.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got.String())
	}
}

func TestValidator_Minimum(t *testing.T) {
	v := New(decimal.NewFromInt(1000))
	assert.Equal(t, "1000", v.Minimum().String())

	assert.True(t, New(decimal.Zero).Minimum().IsZero())
}
