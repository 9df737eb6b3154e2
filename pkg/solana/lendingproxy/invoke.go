package lendingproxy

import (
	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
)

// NewLendingDepositInvocation builds the lending program deposit for validated
// accounts. The lending market authority is derived rather than read from the
// remaining accounts; the lending program checks it.
func NewLendingDepositInvocation(accounts *DepositReserveLiquidityAccounts, liquidityAmount uint64) (solana.Instruction, error) {
	return lending.DepositReserveLiquidity(
		accounts.LendingProgram.Key,
		&lending.DepositReserveLiquidityAccounts{
			SourceLiquidity:        accounts.SourceLiquidity.Key,
			DestinationCollateral:  accounts.DestinationCollateral.Key,
			Reserve:                accounts.Reserve.Key,
			ReserveLiquiditySupply: accounts.ReserveLiquiditySupply.Key,
			ReserveCollateralMint:  accounts.ReserveCollateralMint.Key,
			LendingMarket:          accounts.LendingMarket.Key,
			UserTransferAuthority:  accounts.UserTransferAuthority.Key,
		},
		liquidityAmount,
	)
}
