package lendingproxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
	"github.com/code-payments/lending-proxy/pkg/testutil"
)

func TestLoadDepositReserveLiquidityAccounts(t *testing.T) {
	env := setupTestEnv(t)
	handles := env.handles(t)

	bound, err := LoadDepositReserveLiquidityAccounts(handles, lending.ProgramKey)
	require.NoError(t, err)
	assert.Equal(t, handles[0], bound.SourceLiquidity)
	assert.Equal(t, handles[2], bound.Reserve)
	assert.Equal(t, handles[5], bound.LendingMarket)
	assert.Equal(t, handles[6], bound.UserTransferAuthority)
	assert.Equal(t, handles[7], bound.LendingProgram)
	assert.Len(t, bound.Remaining, 3)
	assert.Equal(t, handles, bound.All())

	_, err = LoadDepositReserveLiquidityAccounts(handles, nil)
	require.NoError(t, err)
}

func TestLoadDepositReserveLiquidityAccounts_Invalid(t *testing.T) {
	env := setupTestEnv(t)

	_, err := LoadDepositReserveLiquidityAccounts(env.handles(t)[:7], nil)
	assert.Equal(t, solana.ErrNotEnoughAccountKeys, err)

	handles := env.handles(t)
	handles[3] = nil
	_, err = LoadDepositReserveLiquidityAccounts(handles, nil)
	assert.Equal(t, solana.ErrNotEnoughAccountKeys, err)

	for i := 0; i < 5; i++ {
		handles := env.handles(t)
		handles[i].IsWritable = false
		_, err = LoadDepositReserveLiquidityAccounts(handles, nil)
		assert.Equal(t, solana.ErrInvalidArgument, err)
	}

	handles = env.handles(t)
	handles[6].IsSigner = false
	_, err = LoadDepositReserveLiquidityAccounts(handles, nil)
	assert.Equal(t, solana.ErrMissingRequiredSignature, err)

	_, err = LoadDepositReserveLiquidityAccounts(env.handles(t), testutil.GenerateSolanaKeys(t, 1)[0])
	assert.Equal(t, ErrorIncorrectProgramID, err)
}
