package lendingproxy

import (
	"bytes"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/lending-proxy/pkg/solana/lending"
)

// DepositState is the lending program state a deposit was validated against.
type DepositState struct {
	LendingMarket lending.LendingMarket
	Reserve       lending.Reserve
}

// ValidateDepositReserveLiquidity checks a deposit against the lending market
// and reserve it names. Checks run in order and stop at the first failure;
// nothing is modified.
func ValidateDepositReserveLiquidity(accounts *DepositReserveLiquidityAccounts, liquidityAmount uint64) (*DepositState, error) {
	v := &validator{
		log: logrus.StandardLogger().WithField("type", "lendingproxy/validator"),
	}
	return v.validate(accounts, liquidityAmount)
}

type validator struct {
	log *logrus.Entry
}

func (v *validator) validate(accounts *DepositReserveLiquidityAccounts, liquidityAmount uint64) (*DepositState, error) {
	log := v.log.WithField("method", "validate")

	if liquidityAmount == 0 {
		log.Debug("amount provided cannot be zero")
		return nil, ErrorInvalidAmount
	}

	var state DepositState

	if err := state.LendingMarket.Unmarshal(accounts.LendingMarket.Data); err != nil {
		log.WithError(err).Debug("invalid lending market data")
		return nil, err
	}
	if !accounts.LendingMarket.IsOwnedBy(accounts.LendingProgram.Key) {
		log.Debug("lending market provided is not owned by the lending program")
		return nil, lending.ErrorInvalidAccountOwner
	}

	if err := state.Reserve.Unmarshal(accounts.Reserve.Data); err != nil {
		log.WithError(err).Debug("invalid reserve data")
		return nil, err
	}
	if !accounts.Reserve.IsOwnedBy(accounts.LendingProgram.Key) {
		log.Debug("reserve provided is not owned by the lending program")
		return nil, lending.ErrorInvalidAccountOwner
	}

	if !bytes.Equal(state.Reserve.LendingMarket, accounts.LendingMarket.Key) {
		log.Debug("reserve lending market does not match the lending market provided")
		return nil, lending.ErrorInvalidAccountInput
	}

	return &state, nil
}
