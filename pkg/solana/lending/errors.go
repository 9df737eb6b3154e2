package lending

import (
	"github.com/code-payments/lending-proxy/pkg/solana"
)

// Errors raised by the token-lending program.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token-lending/program/src/error.rs
const (
	// Invalid instruction data passed in
	ErrorInstructionUnpackError solana.CustomError = iota
	// The account cannot be initialized because it is already in use
	ErrorAlreadyInitialized
	// Lamport balance below rent-exempt threshold
	ErrorNotRentExempt
	// The program address provided doesn't match the value generated by the program
	ErrorInvalidMarketAuthority
	// Expected a different market owner
	ErrorInvalidMarketOwner
	// The owner of the input isn't set to the program address generated by the program
	ErrorInvalidAccountOwner
	// The owner of the account input isn't set to the correct token program id
	ErrorInvalidTokenOwner
	// Expected an SPL Token account
	ErrorInvalidTokenAccount
	// Expected an SPL Token mint
	ErrorInvalidTokenMint
	// Expected a different SPL Token program
	ErrorInvalidTokenProgram
	// Input amount is invalid
	ErrorInvalidAmount
	// Input config value is invalid
	ErrorInvalidConfig
	// Input account must be a signer
	ErrorInvalidSigner
	// Invalid account input
	ErrorInvalidAccountInput
	// Math operation overflow
	ErrorMathOverflow
	// Token initialize mint failed
	ErrorTokenInitializeMintFailed
	// Token initialize account failed
	ErrorTokenInitializeAccountFailed
	// Token transfer failed
	ErrorTokenTransferFailed
	// Token mint to failed
	ErrorTokenMintToFailed
	// Token burn failed
	ErrorTokenBurnFailed
	// Insufficient liquidity available
	ErrorInsufficientLiquidity
	// This reserve's collateral cannot be used for borrows
	ErrorReserveCollateralDisabled
	// Reserve state needs to be refreshed
	ErrorReserveStale
)
