package lendingproxy

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/binary"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
	"github.com/code-payments/lending-proxy/pkg/solana/system"
	"github.com/code-payments/lending-proxy/pkg/solana/token"
)

const (
	DepositReserveLiquidityInstructionArgsSize = 8 // liquidity_amount

	DepositReserveLiquidityInstructionSize = (1 + // command
		DepositReserveLiquidityInstructionArgsSize)
)

// DepositReserveLiquidity deposits liquidity into a reserve in exchange for
// collateral, after the reserve and lending market have been validated.
type DepositReserveLiquidity struct {
	LiquidityAmount uint64
}

func (i *DepositReserveLiquidity) Command() Command {
	return CommandDepositReserveLiquidity
}

func (i *DepositReserveLiquidity) Marshal() []byte {
	b := make([]byte, DepositReserveLiquidityInstructionSize)

	var offset int
	binary.PutUint8(b, uint8(CommandDepositReserveLiquidity), &offset)
	binary.PutUint64(b[offset:], i.LiquidityAmount, &offset)

	return b
}

func (i *DepositReserveLiquidity) Unmarshal(data []byte) error {
	if len(data) != DepositReserveLiquidityInstructionSize {
		return ErrorInvalidInstruction
	}
	if Command(data[0]) != CommandDepositReserveLiquidity {
		return ErrorInvalidInstruction
	}

	offset := 1
	binary.GetUint64(data[offset:], &i.LiquidityAmount, &offset)

	return nil
}

type DepositReserveLiquidityInstructionArgs struct {
	LiquidityAmount uint64
}

type DepositReserveLiquidityInstructionAccounts struct {
	SourceLiquidity        ed25519.PublicKey
	DestinationCollateral  ed25519.PublicKey
	Reserve                ed25519.PublicKey
	ReserveLiquiditySupply ed25519.PublicKey
	ReserveCollateralMint  ed25519.PublicKey
	LendingMarket          ed25519.PublicKey
	UserTransferAuthority  ed25519.PublicKey

	// Defaults to lending.ProgramKey when empty.
	LendingProgram ed25519.PublicKey
}

func (a *DepositReserveLiquidityInstructionAccounts) lendingProgram() ed25519.PublicKey {
	if len(a.LendingProgram) == 0 {
		return lending.ProgramKey
	}
	return a.LendingProgram
}

// NewDepositReserveLiquidityInstruction creates a deposit instruction for the
// lending proxy deployed at program.
func NewDepositReserveLiquidityInstruction(
	program ed25519.PublicKey,
	accounts *DepositReserveLiquidityInstructionAccounts,
	args *DepositReserveLiquidityInstructionArgs,
) (solana.Instruction, error) {
	// Accounts expected by this instruction:
	//
	//   0. `[writable]` Source liquidity token account.
	//                     $authority can transfer $liquidity_amount.
	//   1. `[writable]` Destination collateral token account.
	//   2. `[writable]` Reserve account.
	//   3. `[writable]` Reserve liquidity supply SPL Token account.
	//   4. `[writable]` Reserve collateral SPL Token mint.
	//   5. `[]` Lending market account.
	//   6. `[signer]` User transfer authority ($authority).
	//   7. `[]` Lending program id.
	//
	// Followed by the accounts only the lending program reads:
	//
	//   8. `[]` Derived lending market authority.
	//   9. `[]` Clock sysvar.
	//   10. `[]` Token program id.
	lendingProgram := accounts.lendingProgram()

	authority, err := lending.GetLendingMarketAuthority(lendingProgram, accounts.LendingMarket)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to derive lending market authority")
	}

	data := (&DepositReserveLiquidity{LiquidityAmount: args.LiquidityAmount}).Marshal()

	return solana.NewInstruction(
		program,
		data,
		solana.NewAccountMeta(accounts.SourceLiquidity, false),
		solana.NewAccountMeta(accounts.DestinationCollateral, false),
		solana.NewAccountMeta(accounts.Reserve, false),
		solana.NewAccountMeta(accounts.ReserveLiquiditySupply, false),
		solana.NewAccountMeta(accounts.ReserveCollateralMint, false),
		solana.NewReadonlyAccountMeta(accounts.LendingMarket, false),
		solana.NewReadonlyAccountMeta(accounts.UserTransferAuthority, true),
		solana.NewReadonlyAccountMeta(lendingProgram, false),
		solana.NewReadonlyAccountMeta(authority, false),
		solana.NewReadonlyAccountMeta(system.ClockSysVar, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	), nil
}

// NewDepositReserveLiquidityWithApprovalInstructions returns a token approval
// allowing the user transfer authority to move the liquidity amount out of the
// source account, followed by the deposit itself. Both must land in the same
// transaction, signed by sourceOwner and the user transfer authority.
func NewDepositReserveLiquidityWithApprovalInstructions(
	program ed25519.PublicKey,
	sourceOwner ed25519.PublicKey,
	accounts *DepositReserveLiquidityInstructionAccounts,
	args *DepositReserveLiquidityInstructionArgs,
) ([]solana.Instruction, error) {
	deposit, err := NewDepositReserveLiquidityInstruction(program, accounts, args)
	if err != nil {
		return nil, err
	}

	return []solana.Instruction{
		token.Approve(accounts.SourceLiquidity, accounts.UserTransferAuthority, sourceOwner, args.LiquidityAmount),
		deposit,
	}, nil
}
