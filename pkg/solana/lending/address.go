package lending

import (
	"crypto/ed25519"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

// GetLendingMarketAuthority derives the authority that signs for token
// accounts owned by a lending market.
func GetLendingMarketAuthority(program, lendingMarket ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(program, lendingMarket)
}

// GetLendingMarketAuthorityWithBump is GetLendingMarketAuthority with the bump
// seed that a LendingMarket stores in its state.
func GetLendingMarketAuthorityWithBump(program, lendingMarket ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(program, lendingMarket)
}
