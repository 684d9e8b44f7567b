package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralbilling/saral-api/pkg/money"
)

func TestEncodePaymentSplitsWireShape(t *testing.T) {
	raw, err := EncodePaymentSplits([]PaymentSplit{
		{Method: "Cash", Amount: 150},
		{Method: "UPI", Amount: 60},
	})
	require.NoError(t, err)
	// Exact key casing and plain numbers are a wire contract.
	assert.Equal(t, `[{"PAYMENT_TYPE":"Cash","AMOUNT":150},{"PAYMENT_TYPE":"UPI","AMOUNT":60}]`, raw)
}

func TestEncodePaymentSplitsEmpty(t *testing.T) {
	raw, err := EncodePaymentSplits(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodePaymentSplitsRoundTrip(t *testing.T) {
	original := []PaymentSplit{
		{Method: "Cash", Amount: 150.25},
		{Method: "Net Banking", Amount: 59.75},
		{Method: "Wallet", Amount: 0.50},
	}
	raw, err := EncodePaymentSplits(original)
	require.NoError(t, err)

	decoded := DecodePaymentSplits(raw, 0)
	require.Len(t, decoded, len(original))
	for i := range original {
		assert.Equal(t, original[i].Method, decoded[i].Method)
		assert.True(t, money.ApproxEqual(original[i].Amount, decoded[i].Amount))
	}
}

func TestDecodePaymentSplitsLegacyString(t *testing.T) {
	splits := DecodePaymentSplits("Cash", 500.00)
	require.Len(t, splits, 1)
	assert.Equal(t, "Cash", splits[0].Method)
	assert.InDelta(t, 500.00, splits[0].Amount, 1e-9)
}

func TestDecodePaymentSplitsMalformedInput(t *testing.T) {
	// A broken JSON array still hydrates as a legacy single method.
	splits := DecodePaymentSplits(`[{"PAYMENT_TYPE":`, 120.00)
	require.Len(t, splits, 1)
	assert.Equal(t, `[{"PAYMENT_TYPE":`, splits[0].Method)
	assert.InDelta(t, 120.00, splits[0].Amount, 1e-9)
}

func TestDecodePaymentSplitsEmpty(t *testing.T) {
	assert.Nil(t, DecodePaymentSplits("", 100))
	assert.Nil(t, DecodePaymentSplits("   ", 100))
}
