package lendingproxy

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

// DepositReserveLiquidityAccountsSize is the number of positional accounts a
// deposit must supply. Accounts past this are forwarded to the lending program
// untouched.
const DepositReserveLiquidityAccountsSize = 8

// DepositReserveLiquidityAccounts binds the account handles of a deposit to
// their position in the account contract.
type DepositReserveLiquidityAccounts struct {
	SourceLiquidity        *solana.AccountInfo // writable
	DestinationCollateral  *solana.AccountInfo // writable
	Reserve                *solana.AccountInfo // writable
	ReserveLiquiditySupply *solana.AccountInfo // writable
	ReserveCollateralMint  *solana.AccountInfo // writable
	LendingMarket          *solana.AccountInfo
	UserTransferAuthority  *solana.AccountInfo // signer
	LendingProgram         *solana.AccountInfo

	// Lending market authority, clock sysvar and token program.
	Remaining []*solana.AccountInfo
}

// LoadDepositReserveLiquidityAccounts binds accounts to the deposit account
// contract, checking each position was passed with the access it requires.
//
// When lendingProgram is set, the lending program account must match it.
func LoadDepositReserveLiquidityAccounts(accounts []*solana.AccountInfo, lendingProgram ed25519.PublicKey) (*DepositReserveLiquidityAccounts, error) {
	if len(accounts) < DepositReserveLiquidityAccountsSize {
		return nil, solana.ErrNotEnoughAccountKeys
	}
	for _, account := range accounts[:DepositReserveLiquidityAccountsSize] {
		if account == nil {
			return nil, solana.ErrNotEnoughAccountKeys
		}
	}

	bound := &DepositReserveLiquidityAccounts{
		SourceLiquidity:        accounts[0],
		DestinationCollateral:  accounts[1],
		Reserve:                accounts[2],
		ReserveLiquiditySupply: accounts[3],
		ReserveCollateralMint:  accounts[4],
		LendingMarket:          accounts[5],
		UserTransferAuthority:  accounts[6],
		LendingProgram:         accounts[7],
		Remaining:              accounts[DepositReserveLiquidityAccountsSize:],
	}

	for _, writable := range bound.writable() {
		if !writable.IsWritable {
			return nil, solana.ErrInvalidArgument
		}
	}
	if !bound.UserTransferAuthority.IsSigner {
		return nil, solana.ErrMissingRequiredSignature
	}
	if len(lendingProgram) > 0 && !bytes.Equal(bound.LendingProgram.Key, lendingProgram) {
		return nil, ErrorIncorrectProgramID
	}

	return bound, nil
}

func (a *DepositReserveLiquidityAccounts) writable() []*solana.AccountInfo {
	return []*solana.AccountInfo{
		a.SourceLiquidity,
		a.DestinationCollateral,
		a.Reserve,
		a.ReserveLiquiditySupply,
		a.ReserveCollateralMint,
	}
}

// All returns every account in contract order, followed by the remaining
// accounts.
func (a *DepositReserveLiquidityAccounts) All() []*solana.AccountInfo {
	all := append(a.writable(),
		a.LendingMarket,
		a.UserTransferAuthority,
		a.LendingProgram,
	)
	return append(all, a.Remaining...)
}
