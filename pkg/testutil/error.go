package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

// AssertInstructionError verifies that the provided error is a transaction
// error raised by the instruction at index, carrying the expected program
// error unchanged.
func AssertInstructionError(t *testing.T, err error, index int, expected error) {
	require.Error(t, err)

	var txErr *solana.InstructionError
	require.True(t, errors.As(err, &txErr), "expected an instruction error, got %v", err)
	assert.Equal(t, index, txErr.Index)
	assert.Equal(t, expected, txErr.Err)
}
