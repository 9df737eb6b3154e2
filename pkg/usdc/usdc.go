// Package usdc holds the USDC mint, the liquidity most lending reserves hold.
package usdc

import (
	"github.com/code-payments/lending-proxy/pkg/solana"
)

const (
	Mint          = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	QuarksPerUsdc = 1000000
	Decimals      = 6
)

var TokenMint = solana.MustDecodeKey(Mint)
