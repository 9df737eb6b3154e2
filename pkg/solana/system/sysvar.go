package system

import (
	"github.com/code-payments/lending-proxy/pkg/solana"
)

// ProgramKey is the address of the system program, which owns every account
// that has not been assigned to another program.
//
// https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramKey = solana.MustDecodeKey("11111111111111111111111111111111")

// RentSysVar points to the system variable "Rent"
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/sysvar/rent.rs#L11
var RentSysVar = solana.MustDecodeKey("SysvarRent111111111111111111111111111111111")

// ClockSysVar points to the system variable "Clock"
//
// https://explorer.solana.com/address/SysvarC1ock11111111111111111111111111111111
var ClockSysVar = solana.MustDecodeKey("SysvarC1ock11111111111111111111111111111111")

// NativeLoaderKey owns builtin program accounts.
var NativeLoaderKey = solana.MustDecodeKey("NativeLoader1111111111111111111111111111111")
