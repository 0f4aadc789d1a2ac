package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCELFeePolicyFreeDeliveryThreshold(t *testing.T) {
	policy, err := NewCELFeePolicy(`subtotal >= 35.0 ? 0.0 : 4.99`)
	require.NoError(t, err)

	fee, err := policy.DeliveryFee(context.Background(), 40.0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)

	fee, err = policy.DeliveryFee(context.Background(), 34.99, 3)
	require.NoError(t, err)
	assert.Equal(t, 4.99, fee)
}

func TestCELFeePolicyCanUseItemCount(t *testing.T) {
	policy, err := NewCELFeePolicy(`item_count > 5 ? 0.0 : 2.50`)
	require.NoError(t, err)

	fee, err := policy.DeliveryFee(context.Background(), 10.0, 6)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fee)

	fee, err = policy.DeliveryFee(context.Background(), 10.0, 2)
	require.NoError(t, err)
	assert.Equal(t, 2.50, fee)
}

func TestCELFeePolicyRejectsBrokenExpressions(t *testing.T) {
	// syntax error
	_, err := NewCELFeePolicy(`subtotal >=`)
	assert.Error(t, err)

	// unknown variable
	_, err = NewCELFeePolicy(`weather == "rain" ? 9.99 : 0.0`)
	assert.Error(t, err)

	// wrong result type
	_, err = NewCELFeePolicy(`1 + 1`)
	assert.Error(t, err)
}

func TestCELFeePolicyRejectsNegativeFee(t *testing.T) {
	policy, err := NewCELFeePolicy(`subtotal - 100.0`)
	require.NoError(t, err)

	_, err = policy.DeliveryFee(context.Background(), 10.0, 1)
	assert.Error(t, err)
}
