package lendingproxy

import (
	"context"
	"crypto/ed25519"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
	"github.com/code-payments/lending-proxy/pkg/solana/runtime"
	"github.com/code-payments/lending-proxy/pkg/solana/token"
	"github.com/code-payments/lending-proxy/pkg/testutil"
	"github.com/code-payments/lending-proxy/pkg/usdc"
)

type recordedDeposit struct {
	program  ed25519.PublicKey
	metas    []solana.AccountMeta
	amount   uint64
	accounts int
}

type testEnv struct {
	rt    *runtime.Runtime
	proxy ed25519.PublicKey

	owner     ed25519.PublicKey
	authority ed25519.PublicKey

	sourceLiquidity        *solana.AccountInfo
	destinationCollateral  *solana.AccountInfo
	reserve                *solana.AccountInfo
	reserveLiquiditySupply *solana.AccountInfo
	reserveCollateralMint  *solana.AccountInfo
	lendingMarket          *solana.AccountInfo

	deposits []recordedDeposit
}

func setupTestEnv(t *testing.T, opts ...Option) *testEnv {
	keys := testutil.GenerateSolanaKeys(t, 3)

	env := &testEnv{
		rt:        runtime.New(),
		proxy:     keys[0],
		owner:     keys[1],
		authority: keys[2],
	}

	collateralMint := testutil.GenerateSolanaKeys(t, 1)[0]

	env.sourceLiquidity = newTokenAccount(t, usdc.TokenMint, env.owner, 1_000*usdc.QuarksPerUsdc)
	env.destinationCollateral = newTokenAccount(t, collateralMint, env.owner, 0)
	env.reserveLiquiditySupply = newTokenAccount(t, usdc.TokenMint, env.owner, 10_000*usdc.QuarksPerUsdc)
	env.reserveCollateralMint = testutil.NewAccountInfo(t, token.ProgramKey, nil)
	env.reserveCollateralMint.Key = collateralMint

	env.lendingMarket = newLendingMarketAccount(t, lending.ProgramKey)
	env.reserve = newReserveAccount(t, lending.ProgramKey, env.lendingMarket.Key, env.reserveLiquiditySupply.Key, collateralMint)

	for _, account := range []*solana.AccountInfo{
		env.sourceLiquidity,
		env.destinationCollateral,
		env.reserveLiquiditySupply,
		env.reserveCollateralMint,
		env.lendingMarket,
		env.reserve,
	} {
		env.rt.SetAccount(account)
	}

	env.rt.RegisterProgram(token.ProgramKey, runtime.ProgramFunc(tokenProgram))
	env.rt.RegisterProgram(lending.ProgramKey, runtime.ProgramFunc(env.lendingProgram))
	env.rt.RegisterProgram(env.proxy, NewProcessor(opts...))

	return env
}

func (e *testEnv) instructionAccounts() *DepositReserveLiquidityInstructionAccounts {
	return &DepositReserveLiquidityInstructionAccounts{
		SourceLiquidity:        e.sourceLiquidity.Key,
		DestinationCollateral:  e.destinationCollateral.Key,
		Reserve:                e.reserve.Key,
		ReserveLiquiditySupply: e.reserveLiquiditySupply.Key,
		ReserveCollateralMint:  e.reserveCollateralMint.Key,
		LendingMarket:          e.lendingMarket.Key,
		UserTransferAuthority:  e.authority,
	}
}

func (e *testEnv) deposit(t *testing.T, amount uint64) error {
	instructions, err := NewDepositReserveLiquidityWithApprovalInstructions(
		e.proxy,
		e.owner,
		e.instructionAccounts(),
		&DepositReserveLiquidityInstructionArgs{LiquidityAmount: amount},
	)
	require.NoError(t, err)

	return e.rt.ProcessTransaction(context.Background(), []ed25519.PublicKey{e.owner, e.authority}, instructions...)
}

func (e *testEnv) getTokenAccount(t *testing.T, key ed25519.PublicKey) *token.Account {
	info, ok := e.rt.GetAccount(key)
	require.True(t, ok)

	var account token.Account
	require.NoError(t, account.Unmarshal(info.Data))
	return &account
}

func (e *testEnv) getReserve(t *testing.T) *lending.Reserve {
	info, ok := e.rt.GetAccount(e.reserve.Key)
	require.True(t, ok)

	var reserve lending.Reserve
	require.NoError(t, reserve.Unmarshal(info.Data))
	return &reserve
}

// lendingProgram stands in for SPL token-lending: it records the deposit it
// receives, requires the transfer authority to be allowed to move the amount
// out of the source account, and credits the reserve.
func (e *testEnv) lendingProgram(_ context.Context, _ solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	metas := make([]solana.AccountMeta, len(accounts))
	for i, account := range accounts {
		metas[i] = account.Meta()
	}

	decompiled, err := lending.DecompileDepositReserveLiquidity(programID, solana.NewInstruction(programID, data, metas...))
	if err != nil {
		return lending.ErrorInstructionUnpackError
	}

	var source token.Account
	if err := source.Unmarshal(accounts[0].Data); err != nil {
		return lending.ErrorInvalidTokenAccount
	}
	if source.Allowance(decompiled.UserTransferAuthority) < decompiled.LiquidityAmount {
		return lending.ErrorTokenTransferFailed
	}

	var reserve lending.Reserve
	if err := reserve.Unmarshal(accounts[2].Data); err != nil {
		return err
	}
	reserve.Liquidity.AvailableAmount += decompiled.LiquidityAmount
	accounts[2].Data = reserve.Marshal()

	e.deposits = append(e.deposits, recordedDeposit{
		program:  programID,
		metas:    metas,
		amount:   decompiled.LiquidityAmount,
		accounts: len(accounts),
	})

	return nil
}

// tokenProgram implements the SPL token Approve instruction.
func tokenProgram(_ context.Context, _ solana.Invoker, programID ed25519.PublicKey, accounts []*solana.AccountInfo, data []byte) error {
	metas := make([]solana.AccountMeta, len(accounts))
	for i, account := range accounts {
		metas[i] = account.Meta()
	}

	approve, err := token.DecompileApprove(solana.NewInstruction(programID, data, metas...))
	if err != nil {
		return solana.ErrInvalidInstructionData
	}
	if !accounts[2].IsSigner {
		return solana.ErrMissingRequiredSignature
	}

	var source token.Account
	if err := source.Unmarshal(accounts[0].Data); err != nil {
		return err
	}
	if !source.Owner.Equal(approve.Owner) {
		return token.ErrorOwnerMismatch
	}

	source.Delegate = approve.Delegate
	source.DelegatedAmount = approve.Amount
	accounts[0].Data = source.Marshal()

	return nil
}

func newTokenAccount(t *testing.T, mint, owner ed25519.PublicKey, amount uint64) *solana.AccountInfo {
	account := &token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  token.AccountStateInitialized,
	}
	return testutil.NewAccountInfo(t, token.ProgramKey, account.Marshal())
}

func newLendingMarketAccount(t *testing.T, owner ed25519.PublicKey) *solana.AccountInfo {
	info := testutil.NewAccountInfo(t, owner, nil)

	_, bump, err := lending.GetLendingMarketAuthorityWithBump(lending.ProgramKey, info.Key)
	require.NoError(t, err)

	market := &lending.LendingMarket{
		Version:         lending.ProgramVersion,
		BumpSeed:        bump,
		Owner:           testutil.GenerateSolanaKeys(t, 1)[0],
		TokenProgramID:  token.ProgramKey,
		OracleProgramID: testutil.GenerateSolanaKeys(t, 1)[0],
	}
	copy(market.QuoteCurrency[:], "USD")

	info.Data = market.Marshal()
	return info
}

func newReserveAccount(t *testing.T, owner, lendingMarket, liquiditySupply, collateralMint ed25519.PublicKey) *solana.AccountInfo {
	reserve := &lending.Reserve{
		Version:       lending.ProgramVersion,
		LendingMarket: lendingMarket,
		Liquidity: lending.ReserveLiquidity{
			MintPubkey:               usdc.TokenMint,
			MintDecimals:             usdc.Decimals,
			SupplyPubkey:             liquiditySupply,
			FeeReceiver:              testutil.GenerateSolanaKeys(t, 1)[0],
			OraclePubkey:             testutil.GenerateSolanaKeys(t, 1)[0],
			AvailableAmount:          10_000 * usdc.QuarksPerUsdc,
			CumulativeBorrowRateWads: decimal.NewFromInt(1),
			MarketPrice:              decimal.NewFromInt(1),
		},
		Collateral: lending.ReserveCollateral{
			MintPubkey:      collateralMint,
			MintTotalSupply: 10_000 * usdc.QuarksPerUsdc,
			SupplyPubkey:    testutil.GenerateSolanaKeys(t, 1)[0],
		},
		Config: lending.ReserveConfig{
			OptimalUtilizationRate: 80,
			LoanToValueRatio:       50,
			LiquidationBonus:       5,
			LiquidationThreshold:   55,
			OptimalBorrowRate:      4,
			MaxBorrowRate:          30,
			Fees: lending.ReserveFees{
				BorrowFeeWad:      decimal.RequireFromString("0.0001"),
				FlashLoanFeeWad:   decimal.RequireFromString("0.003"),
				HostFeePercentage: 20,
			},
		},
	}

	return testutil.NewAccountInfo(t, owner, reserve.Marshal())
}

// handles returns account handles with the access mode of the lending proxy
// account contract.
func (e *testEnv) handles(t *testing.T) []*solana.AccountInfo {
	instruction, err := NewDepositReserveLiquidityInstruction(e.proxy, e.instructionAccounts(), &DepositReserveLiquidityInstructionArgs{LiquidityAmount: 1})
	require.NoError(t, err)

	handles := make([]*solana.AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		info, ok := e.rt.GetAccount(meta.PublicKey)
		if !ok {
			info = &solana.AccountInfo{Key: meta.PublicKey}
		}
		info.IsSigner = meta.IsSigner
		info.IsWritable = meta.IsWritable
		handles[i] = info
	}
	return handles
}
