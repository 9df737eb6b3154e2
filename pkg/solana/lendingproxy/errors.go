package lendingproxy

import (
	"github.com/code-payments/lending-proxy/pkg/solana"
)

// Errors raised by the lending proxy program itself. Ownership and cross
// reference failures use the lending program's own codes, and errors raised by
// the lending program are returned unchanged.
const (
	// Invalid instruction
	ErrorInvalidInstruction solana.CustomError = iota
	// The account is not currently owned by the program
	ErrorIncorrectProgramID
	// The amount is invalid
	ErrorInvalidAmount
)
