package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/binary"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

const optionSize = 4

// Account is an SPL token account.
type Account struct {
	Mint   ed25519.PublicKey
	Owner  ed25519.PublicKey
	Amount uint64
	// Delegate may move up to DelegatedAmount on behalf of Owner.
	Delegate ed25519.PublicKey
	State    AccountState
	// Rent-exempt reserve of a wrapped SOL account.
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  ed25519.PublicKey
}

func (a *Account) Marshal() []byte {
	b := make([]byte, AccountSize)

	var offset int
	binary.PutKey32(b, a.Mint, &offset)
	binary.PutKey32(b[offset:], a.Owner, &offset)
	binary.PutUint64(b[offset:], a.Amount, &offset)
	binary.PutOptionalKey32(b[offset:], a.Delegate, &offset, optionSize)
	binary.PutUint8(b[offset:], uint8(a.State), &offset)
	binary.PutOptionalUint64(b[offset:], a.IsNative, &offset, optionSize)
	binary.PutUint64(b[offset:], a.DelegatedAmount, &offset)
	binary.PutOptionalKey32(b[offset:], a.CloseAuthority, &offset, optionSize)

	return b
}

// Unmarshal decodes an initialized (or frozen) token account.
func (a *Account) Unmarshal(b []byte) error {
	if len(b) != AccountSize {
		return solana.ErrInvalidAccountData
	}

	var (
		offset int
		state  uint8
	)

	binary.GetKey32(b, &a.Mint, &offset)
	binary.GetKey32(b[offset:], &a.Owner, &offset)
	binary.GetUint64(b[offset:], &a.Amount, &offset)
	if err := binary.GetOptionalKey32(b[offset:], &a.Delegate, &offset, optionSize); err != nil {
		return solana.ErrInvalidAccountData
	}
	binary.GetUint8(b[offset:], &state, &offset)
	if err := binary.GetOptionalUint64(b[offset:], &a.IsNative, &offset, optionSize); err != nil {
		return solana.ErrInvalidAccountData
	}
	binary.GetUint64(b[offset:], &a.DelegatedAmount, &offset)
	if err := binary.GetOptionalKey32(b[offset:], &a.CloseAuthority, &offset, optionSize); err != nil {
		return solana.ErrInvalidAccountData
	}

	a.State = AccountState(state)
	switch a.State {
	case AccountStateUninitialized:
		return solana.ErrUninitializedAccount
	case AccountStateInitialized, AccountStateFrozen:
		return nil
	default:
		return solana.ErrInvalidAccountData
	}
}

// Allowance returns the amount authority may transfer out of the account,
// either as its owner or as its delegate.
func (a *Account) Allowance(authority ed25519.PublicKey) uint64 {
	if a.State != AccountStateInitialized {
		return 0
	}
	if bytes.Equal(a.Owner, authority) {
		return a.Amount
	}
	if len(a.Delegate) > 0 && bytes.Equal(a.Delegate, authority) {
		if a.DelegatedAmount < a.Amount {
			return a.DelegatedAmount
		}
		return a.Amount
	}
	return 0
}
