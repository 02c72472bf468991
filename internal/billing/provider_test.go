package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubProviderLifecycle(t *testing.T) {
	var p PaymentProvider = StubProvider{}

	intent, err := p.CreateIntent(28.00, "USD", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ID)
	assert.Equal(t, 28.00, intent.Amount)

	captured, err := p.Capture(intent.ID)
	require.NoError(t, err)
	assert.Equal(t, "captured", captured.Status)

	refunded, err := p.Refund(intent.ID, 28.00)
	require.NoError(t, err)
	assert.Equal(t, "refunded", refunded.Status)

	assert.True(t, p.VerifyWebhook(nil, nil))
}
