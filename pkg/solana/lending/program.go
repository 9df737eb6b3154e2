package lending

import (
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/system"
	"github.com/code-payments/lending-proxy/pkg/solana/token"
)

// ProgramKey is the address of the SPL token-lending program on mainnet.
//
// Current key: LendZqTs7gn5CTSJU1jWKhKuVpjJGom45nnwPb2AMTi
var ProgramKey = solana.MustDecodeKey("LendZqTs7gn5CTSJU1jWKhKuVpjJGom45nnwPb2AMTi")

type Command byte

const (
	CommandInitLendingMarket Command = iota
	CommandSetLendingMarketOwner
	CommandInitReserve
	CommandRefreshReserve
	CommandDepositReserveLiquidity
	CommandRedeemReserveCollateral
	CommandInitObligation
	CommandRefreshObligation
	CommandDepositObligationCollateral
	CommandWithdrawObligationCollateral
	CommandBorrowObligationLiquidity
	CommandRepayObligationLiquidity
	CommandLiquidateObligation
	CommandFlashLoan

	CommandUnknown = Command(math.MaxUint8)
)

const depositReserveLiquidityDataSize = 1 + 8

// GetCommand returns the command of an instruction targeting the token-lending
// deployment at program.
func GetCommand(program ed25519.PublicKey, i solana.Instruction) (Command, error) {
	if !i.IsProgram(program) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("lending instruction missing data")
	}

	return Command(i.Data[0]), nil
}

type DepositReserveLiquidityAccounts struct {
	SourceLiquidity        ed25519.PublicKey
	DestinationCollateral  ed25519.PublicKey
	Reserve                ed25519.PublicKey
	ReserveLiquiditySupply ed25519.PublicKey
	ReserveCollateralMint  ed25519.PublicKey
	LendingMarket          ed25519.PublicKey
	UserTransferAuthority  ed25519.PublicKey
}

// DepositReserveLiquidity deposits liquidity into a reserve in exchange for
// collateral, which represents a share of the reserve liquidity pool.
//
// The lending market authority is derived from the lending market under
// program, so callers targeting a non-mainnet deployment pass its key.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token-lending/program/src/instruction.rs
func DepositReserveLiquidity(program ed25519.PublicKey, accounts *DepositReserveLiquidityAccounts, liquidityAmount uint64) (solana.Instruction, error) {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Source liquidity token account.
	//                     $authority can transfer $liquidity_amount.
	//   1. `[writable]` Destination collateral token account.
	//   2. `[writable]` Reserve account.
	//   3. `[writable]` Reserve liquidity supply SPL Token account.
	//   4. `[writable]` Reserve collateral SPL Token mint.
	//   5. `[]` Lending market account.
	//   6. `[]` Derived lending market authority.
	//   7. `[signer]` User transfer authority ($authority).
	//   8. `[]` Clock sysvar.
	//   9. `[]` Token program id.
	authority, err := GetLendingMarketAuthority(program, accounts.LendingMarket)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to derive lending market authority")
	}

	data := make([]byte, depositReserveLiquidityDataSize)
	data[0] = byte(CommandDepositReserveLiquidity)
	binary.LittleEndian.PutUint64(data[1:], liquidityAmount)

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.SourceLiquidity, false),
		solana.NewAccountMeta(accounts.DestinationCollateral, false),
		solana.NewAccountMeta(accounts.Reserve, false),
		solana.NewAccountMeta(accounts.ReserveLiquiditySupply, false),
		solana.NewAccountMeta(accounts.ReserveCollateralMint, false),
		solana.NewReadonlyAccountMeta(accounts.LendingMarket, false),
		solana.NewReadonlyAccountMeta(authority, false),
		solana.NewReadonlyAccountMeta(accounts.UserTransferAuthority, true),
		solana.NewReadonlyAccountMeta(system.ClockSysVar, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	), nil
}

type DecompiledDepositReserveLiquidity struct {
	DepositReserveLiquidityAccounts

	LendingMarketAuthority ed25519.PublicKey
	LiquidityAmount        uint64
}

// DecompileDepositReserveLiquidity parses a deposit instruction addressed to
// program.
func DecompileDepositReserveLiquidity(program ed25519.PublicKey, i solana.Instruction) (*DecompiledDepositReserveLiquidity, error) {
	if !i.IsProgram(program) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || Command(i.Data[0]) != CommandDepositReserveLiquidity {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Data) != depositReserveLiquidityDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 10 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if !i.Accounts[8].PublicKey.Equal(system.ClockSysVar) {
		return nil, errors.New("invalid clock sysvar")
	}
	if !i.Accounts[9].PublicKey.Equal(token.ProgramKey) {
		return nil, errors.New("invalid token program")
	}

	return &DecompiledDepositReserveLiquidity{
		DepositReserveLiquidityAccounts: DepositReserveLiquidityAccounts{
			SourceLiquidity:        i.Accounts[0].PublicKey,
			DestinationCollateral:  i.Accounts[1].PublicKey,
			Reserve:                i.Accounts[2].PublicKey,
			ReserveLiquiditySupply: i.Accounts[3].PublicKey,
			ReserveCollateralMint:  i.Accounts[4].PublicKey,
			LendingMarket:          i.Accounts[5].PublicKey,
			UserTransferAuthority:  i.Accounts[7].PublicKey,
		},
		LendingMarketAuthority: i.Accounts[6].PublicKey,
		LiquidityAmount:        binary.LittleEndian.Uint64(i.Data[1:]),
	}, nil
}
