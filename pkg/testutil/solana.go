package testutil

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

func GenerateSolanaKeypair(t *testing.T) ed25519.PrivateKey {
	_, p, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return p
}

func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := 0; i < n; i++ {
		p, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = p
	}
	return keys
}

// NewAccountInfo returns a rent-funded account at a random address.
func NewAccountInfo(t *testing.T, owner ed25519.PublicKey, data []byte) *solana.AccountInfo {
	return &solana.AccountInfo{
		Key:      GenerateSolanaKeys(t, 1)[0],
		Owner:    owner,
		Lamports: 1_000_000,
		Data:     data,
	}
}
