package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "+2250707070707", CleanPhone("+225 07-07 (07) 07.07"))
	assert.Equal(t, "abc123", CleanPhone(" abc 123 "))
}

func TestValidatePhone(t *testing.T) {
	orange := []string{"07", "08", "09"}
	mtn := []string{"05", "06"}

	tests := []struct {
		name     string
		phone    string
		method   domain.PaymentMethod
		prefixes []string
		reason   string
		clean    string
	}{
		{name: "orange local", phone: "0707070707", method: domain.PaymentOrangeMoney, prefixes: orange, clean: "0707070707"},
		{name: "orange with country code", phone: "+225 09 12 34 56 78", method: domain.PaymentOrangeMoney, prefixes: orange, clean: "+2250912345678"},
		{name: "orange with 00225", phone: "002250812345678", method: domain.PaymentOrangeMoney, prefixes: orange, clean: "002250812345678"},
		{name: "mtn rejects orange number", phone: "0707070707", method: domain.PaymentMTNMoney, prefixes: mtn, reason: ReasonPrefixMismatch},
		{name: "mtn accepts 05", phone: "05 44 33 22 11", method: domain.PaymentMTNMoney, prefixes: mtn, clean: "0544332211"},
		{name: "wave accepts any prefix", phone: "0144332211", method: domain.PaymentWave, clean: "0144332211"},
		{name: "too short", phone: "07070707", method: domain.PaymentWave, reason: ReasonInvalidFormat},
		{name: "letters", phone: "abc123", method: domain.PaymentWave, reason: ReasonInvalidFormat},
		{name: "wrong country", phone: "+33612345678", method: domain.PaymentWave, reason: ReasonInvalidFormat},
		{name: "empty", phone: "", method: domain.PaymentOrangeMoney, prefixes: orange, reason: ReasonInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, err := ValidatePhone(tt.phone, tt.method, tt.prefixes)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.clean, clean)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestGarbagePhoneFailsForEveryProvider(t *testing.T) {
	for method, provider := range DefaultRegistry(0, nil) {
		if method == domain.PaymentCash {
			continue
		}
		err := provider.Validate("abc123")
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), method)
		assert.Equal(t, ReasonInvalidFormat, verr.Reason)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Reason: ReasonPrefixMismatch, Provider: domain.PaymentMTNMoney}
	assert.Equal(t, "prefix mismatch: this number does not belong to mtn-money", err.Error())
	assert.Equal(t, "invalid format", (&ValidationError{Reason: ReasonInvalidFormat}).Error())
}
