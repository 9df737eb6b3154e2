package lendingproxy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
	"github.com/code-payments/lending-proxy/pkg/solana/system"
	"github.com/code-payments/lending-proxy/pkg/solana/token"
	"github.com/code-payments/lending-proxy/pkg/testutil"
	"github.com/code-payments/lending-proxy/pkg/usdc"
)

func TestDepositReserveLiquidity_RoundTrip(t *testing.T) {
	for _, amount := range []uint64{0, 1, 100 * usdc.QuarksPerUsdc, math.MaxUint64} {
		data := (&DepositReserveLiquidity{LiquidityAmount: amount}).Marshal()
		require.Len(t, data, DepositReserveLiquidityInstructionSize)
		assert.EqualValues(t, CommandDepositReserveLiquidity, data[0])

		instruction, err := Unpack(data)
		require.NoError(t, err)
		assert.Equal(t, CommandDepositReserveLiquidity, instruction.Command())
		assert.Equal(t, &DepositReserveLiquidity{LiquidityAmount: amount}, instruction)
		assert.Equal(t, data, instruction.Marshal())
	}
}

func TestDepositReserveLiquidity_WireFormat(t *testing.T) {
	data := (&DepositReserveLiquidity{LiquidityAmount: 0x0102030405060708}).Marshal()
	assert.Equal(t, []byte{0, 8, 7, 6, 5, 4, 3, 2, 1}, data)
}

func TestUnpack_Invalid(t *testing.T) {
	valid := (&DepositReserveLiquidity{LiquidityAmount: 42}).Marshal()

	for _, data := range [][]byte{
		nil,
		{},
		{1},
		{0xff, 0, 0, 0, 0, 0, 0, 0, 0},
		append([]byte{1}, valid[1:]...),
		append(append([]byte{}, valid...), 0),
	} {
		_, err := Unpack(data)
		assert.Equal(t, ErrorInvalidInstruction, err)
	}

	for i := 1; i < len(valid); i++ {
		_, err := Unpack(valid[:i])
		assert.Equal(t, ErrorInvalidInstruction, err)
	}
}

func TestNewDepositReserveLiquidityInstruction(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 8)

	accounts := &DepositReserveLiquidityInstructionAccounts{
		SourceLiquidity:        keys[0],
		DestinationCollateral:  keys[1],
		Reserve:                keys[2],
		ReserveLiquiditySupply: keys[3],
		ReserveCollateralMint:  keys[4],
		LendingMarket:          keys[5],
		UserTransferAuthority:  keys[6],
	}

	instruction, err := NewDepositReserveLiquidityInstruction(keys[7], accounts, &DepositReserveLiquidityInstructionArgs{LiquidityAmount: 5})
	require.NoError(t, err)

	assert.Equal(t, keys[7], instruction.Program)
	assert.Equal(t, (&DepositReserveLiquidity{LiquidityAmount: 5}).Marshal(), instruction.Data)

	authority, err := lending.GetLendingMarketAuthority(lending.ProgramKey, keys[5])
	require.NoError(t, err)

	expected := []solana.AccountMeta{
		solana.NewAccountMeta(keys[0], false),
		solana.NewAccountMeta(keys[1], false),
		solana.NewAccountMeta(keys[2], false),
		solana.NewAccountMeta(keys[3], false),
		solana.NewAccountMeta(keys[4], false),
		solana.NewReadonlyAccountMeta(keys[5], false),
		solana.NewReadonlyAccountMeta(keys[6], true),
		solana.NewReadonlyAccountMeta(lending.ProgramKey, false),
		solana.NewReadonlyAccountMeta(authority, false),
		solana.NewReadonlyAccountMeta(system.ClockSysVar, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	}
	assert.Equal(t, expected, instruction.Accounts)

	custom := testutil.GenerateSolanaKeys(t, 1)[0]
	accounts.LendingProgram = custom
	instruction, err = NewDepositReserveLiquidityInstruction(keys[7], accounts, &DepositReserveLiquidityInstructionArgs{LiquidityAmount: 5})
	require.NoError(t, err)

	authority, err = lending.GetLendingMarketAuthority(custom, keys[5])
	require.NoError(t, err)
	assert.Equal(t, custom, instruction.Accounts[7].PublicKey)
	assert.Equal(t, authority, instruction.Accounts[8].PublicKey)
}

func TestNewDepositReserveLiquidityWithApprovalInstructions(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 9)

	accounts := &DepositReserveLiquidityInstructionAccounts{
		SourceLiquidity:        keys[0],
		DestinationCollateral:  keys[1],
		Reserve:                keys[2],
		ReserveLiquiditySupply: keys[3],
		ReserveCollateralMint:  keys[4],
		LendingMarket:          keys[5],
		UserTransferAuthority:  keys[6],
	}

	instructions, err := NewDepositReserveLiquidityWithApprovalInstructions(keys[7], keys[8], accounts, &DepositReserveLiquidityInstructionArgs{LiquidityAmount: 77})
	require.NoError(t, err)
	require.Len(t, instructions, 2)

	approve, err := token.DecompileApprove(instructions[0])
	require.NoError(t, err)
	assert.Equal(t, keys[0], approve.Source)
	assert.Equal(t, keys[6], approve.Delegate)
	assert.Equal(t, keys[8], approve.Owner)
	assert.EqualValues(t, 77, approve.Amount)

	assert.Equal(t, keys[7], instructions[1].Program)
	deposit, err := Unpack(instructions[1].Data)
	require.NoError(t, err)
	assert.Equal(t, &DepositReserveLiquidity{LiquidityAmount: 77}, deposit)
}
