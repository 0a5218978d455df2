package secret

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creastech-limited/XMWHS-sub001/internal/gateway"
	"github.com/creastech-limited/XMWHS-sub001/internal/models"
)

type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) GenerateOTP(ctx context.Context, bearer string) error {
	args := m.Called(ctx, bearer)
	return args.Error(0)
}

func (m *MockIssuer) VerifyOTP(ctx context.Context, bearer string, req VerifyRequest) error {
	args := m.Called(ctx, bearer, req)
	return args.Error(0)
}

func TestValidPIN(t *testing.T) {
	tests := []struct {
		pin  string
		want bool
	}{
		{"1234", true},
		{"0000", true},
		{"123", false},
		{"12345", false},
		{"12a4", false},
		{"12 4", false},
		{"", false},
		{"١٢٣٤", false}, // non-ASCII digits
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPIN(tt.pin), "pin %q", tt.pin)
	}
}

func TestGate_PINFlow(t *testing.T) {
	g := NewGate(ModePIN, nil)
	assert.Equal(t, ModePIN, g.Mode())
	assert.False(t, g.Verified())

	assert.ErrorIs(t, g.SubmitPIN("12"), ErrMalformedSecret)
	assert.False(t, g.Verified())

	assert.NoError(t, g.SubmitPIN("1234"))
	assert.True(t, g.Verified())

	sec, err := g.Take()
	assert.NoError(t, err)
	assert.Equal(t, "1234", sec.Raw())

	// one submission attempt per secret
	_, err = g.Take()
	assert.ErrorIs(t, err, ErrAlreadySpent)
	assert.False(t, g.Verified())
}

func TestGate_TakeUnverified(t *testing.T) {
	g := NewGate(ModePIN, nil)
	_, err := g.Take()
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestGate_Reset(t *testing.T) {
	g := NewGate(ModePIN, nil)
	assert.NoError(t, g.SubmitPIN("1234"))

	g.Reset()
	assert.False(t, g.Verified())
	_, err := g.Take()
	assert.ErrorIs(t, err, ErrNotVerified)

	// a fresh PIN re-arms the gate
	assert.NoError(t, g.SubmitPIN("4321"))
	sec, err := g.Take()
	assert.NoError(t, err)
	assert.Equal(t, "4321", sec.Raw())
}

func TestGate_Restore(t *testing.T) {
	g := NewGate(ModePIN, nil)
	assert.NoError(t, g.SubmitPIN("1234"))

	sec, err := g.Take()
	assert.NoError(t, err)

	g.Restore(sec)
	assert.True(t, g.Verified())

	again, err := g.Take()
	assert.NoError(t, err)
	assert.Equal(t, "1234", again.Raw())
}

func TestGate_OTPFlow(t *testing.T) {
	details := models.BankDetails{
		AccountName:   "ADA OBI",
		AccountNumber: "0123456789",
		BankName:      "First Bank",
		BankCode:      "058",
	}

	t.Run("request and verify unlock the gate", func(t *testing.T) {
		issuer := new(MockIssuer)
		issuer.On("GenerateOTP", mock.Anything, "token").Return(nil)
		issuer.On("VerifyOTP", mock.Anything, "token", VerifyRequest{
			OTP:           "482913",
			AccountName:   details.AccountName,
			AccountNumber: details.AccountNumber,
			BankName:      details.BankName,
			BankCode:      details.BankCode,
		}).Return(nil)

		g := NewGate(ModeOTP, issuer)
		assert.NoError(t, g.RequestOTP(context.Background(), "token"))
		assert.NoError(t, g.VerifyOTP(context.Background(), "token", "482913", details))
		assert.True(t, g.Verified())

		sec, err := g.Take()
		assert.NoError(t, err)
		assert.Equal(t, "482913", sec.Raw())
		issuer.AssertExpectations(t)
	})

	t.Run("expired code keeps the gate locked", func(t *testing.T) {
		issuer := new(MockIssuer)
		issuer.On("VerifyOTP", mock.Anything, "token", mock.Anything).Return(gateway.ErrOTPExpired)

		g := NewGate(ModeOTP, issuer)
		err := g.VerifyOTP(context.Background(), "token", "482913", details)
		assert.ErrorIs(t, err, gateway.ErrOTPExpired)
		assert.False(t, g.Verified())
	})

	t.Run("empty code rejected locally", func(t *testing.T) {
		issuer := new(MockIssuer)
		g := NewGate(ModeOTP, issuer)
		assert.ErrorIs(t, g.VerifyOTP(context.Background(), "token", "", details), ErrMalformedSecret)
		issuer.AssertNotCalled(t, "VerifyOTP", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("otp calls rejected on pin gate", func(t *testing.T) {
		g := NewGate(ModePIN, nil)
		assert.ErrorIs(t, g.RequestOTP(context.Background(), "token"), ErrMalformedSecret)
		assert.ErrorIs(t, g.VerifyOTP(context.Background(), "token", "482913", details), ErrMalformedSecret)
	})
}

func TestSecretCredential_Redaction(t *testing.T) {
	sec := models.SecretCredential("1234")
	assert.Equal(t, "****", sec.String())

	data, err := sec.MarshalJSON()
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "1234")
	assert.Equal(t, "1234", sec.Raw())
}
