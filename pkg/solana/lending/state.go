package lending

import (
	"crypto/ed25519"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/code-payments/lending-proxy/pkg/solana"
	"github.com/code-payments/lending-proxy/pkg/solana/binary"
)

// ProgramVersion is the latest state version written by the lending program.
const ProgramVersion = 1

const wadDecimals = 18

// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token-lending/program/src/state/lending_market.rs
const (
	LendingMarketSize = (1 + // Version
		1 + // BumpSeed
		32 + // Owner
		32 + // QuoteCurrency
		32 + // TokenProgramID
		32 + // OracleProgramID
		128) // padding
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/master/token-lending/program/src/state/reserve.rs
const (
	ReserveSize = (1 + // Version
		8 + // LastUpdate.Slot
		1 + // LastUpdate.Stale
		32 + // LendingMarket
		32 + // Liquidity.MintPubkey
		1 + // Liquidity.MintDecimals
		32 + // Liquidity.SupplyPubkey
		32 + // Liquidity.FeeReceiver
		32 + // Liquidity.OraclePubkey
		8 + // Liquidity.AvailableAmount
		16 + // Liquidity.BorrowedAmountWads
		16 + // Liquidity.CumulativeBorrowRateWads
		16 + // Liquidity.MarketPrice
		32 + // Collateral.MintPubkey
		8 + // Collateral.MintTotalSupply
		32 + // Collateral.SupplyPubkey
		7 + // Config rates
		8 + // Config.Fees.BorrowFeeWad
		8 + // Config.Fees.FlashLoanFeeWad
		1 + // Config.Fees.HostFeePercentage
		248) // padding
)

// LendingMarket groups reserves under a shared owner and quote currency.
type LendingMarket struct {
	Version         uint8
	BumpSeed        uint8
	Owner           ed25519.PublicKey
	QuoteCurrency   [32]byte
	TokenProgramID  ed25519.PublicKey
	OracleProgramID ed25519.PublicKey
}

func (m *LendingMarket) Marshal() []byte {
	b := make([]byte, LendingMarketSize)

	var offset int
	binary.PutUint8(b, m.Version, &offset)
	binary.PutUint8(b[offset:], m.BumpSeed, &offset)
	binary.PutKey32(b[offset:], m.Owner, &offset)
	binary.PutBytes(b[offset:], m.QuoteCurrency[:], len(m.QuoteCurrency), &offset)
	binary.PutKey32(b[offset:], m.TokenProgramID, &offset)
	binary.PutKey32(b[offset:], m.OracleProgramID, &offset)

	return b
}

// Unmarshal decodes a lending market with the same rules the lending program
// applies when it loads one.
func (m *LendingMarket) Unmarshal(b []byte) error {
	if len(b) != LendingMarketSize {
		return solana.ErrInvalidAccountData
	}
	if err := checkVersion(b[0]); err != nil {
		return err
	}

	var offset int
	binary.GetUint8(b, &m.Version, &offset)
	binary.GetUint8(b[offset:], &m.BumpSeed, &offset)
	binary.GetKey32(b[offset:], &m.Owner, &offset)
	binary.GetBytes(b[offset:], m.QuoteCurrency[:], &offset)
	binary.GetKey32(b[offset:], &m.TokenProgramID, &offset)
	binary.GetKey32(b[offset:], &m.OracleProgramID, &offset)

	return nil
}

type LastUpdate struct {
	Slot  uint64
	Stale bool
}

type ReserveLiquidity struct {
	MintPubkey               ed25519.PublicKey
	MintDecimals             uint8
	SupplyPubkey             ed25519.PublicKey
	FeeReceiver              ed25519.PublicKey
	OraclePubkey             ed25519.PublicKey
	AvailableAmount          uint64
	BorrowedAmountWads       decimal.Decimal
	CumulativeBorrowRateWads decimal.Decimal
	MarketPrice              decimal.Decimal
}

type ReserveCollateral struct {
	MintPubkey      ed25519.PublicKey
	MintTotalSupply uint64
	SupplyPubkey    ed25519.PublicKey
}

type ReserveFees struct {
	BorrowFeeWad      decimal.Decimal
	FlashLoanFeeWad   decimal.Decimal
	HostFeePercentage uint8
}

// ReserveConfig rates are percentages.
type ReserveConfig struct {
	OptimalUtilizationRate uint8
	LoanToValueRatio       uint8
	LiquidationBonus       uint8
	LiquidationThreshold   uint8
	MinBorrowRate          uint8
	OptimalBorrowRate      uint8
	MaxBorrowRate          uint8
	Fees                   ReserveFees
}

// Reserve describes a liquidity pool belonging to a lending market.
type Reserve struct {
	Version       uint8
	LastUpdate    LastUpdate
	LendingMarket ed25519.PublicKey
	Liquidity     ReserveLiquidity
	Collateral    ReserveCollateral
	Config        ReserveConfig
}

func (r *Reserve) Marshal() []byte {
	b := make([]byte, ReserveSize)

	var offset int
	binary.PutUint8(b, r.Version, &offset)
	binary.PutUint64(b[offset:], r.LastUpdate.Slot, &offset)
	binary.PutBool(b[offset:], r.LastUpdate.Stale, &offset)
	binary.PutKey32(b[offset:], r.LendingMarket, &offset)

	binary.PutKey32(b[offset:], r.Liquidity.MintPubkey, &offset)
	binary.PutUint8(b[offset:], r.Liquidity.MintDecimals, &offset)
	binary.PutKey32(b[offset:], r.Liquidity.SupplyPubkey, &offset)
	binary.PutKey32(b[offset:], r.Liquidity.FeeReceiver, &offset)
	binary.PutKey32(b[offset:], r.Liquidity.OraclePubkey, &offset)
	binary.PutUint64(b[offset:], r.Liquidity.AvailableAmount, &offset)
	binary.PutUint128(b[offset:], wadToInt(r.Liquidity.BorrowedAmountWads), &offset)
	binary.PutUint128(b[offset:], wadToInt(r.Liquidity.CumulativeBorrowRateWads), &offset)
	binary.PutUint128(b[offset:], wadToInt(r.Liquidity.MarketPrice), &offset)

	binary.PutKey32(b[offset:], r.Collateral.MintPubkey, &offset)
	binary.PutUint64(b[offset:], r.Collateral.MintTotalSupply, &offset)
	binary.PutKey32(b[offset:], r.Collateral.SupplyPubkey, &offset)

	binary.PutUint8(b[offset:], r.Config.OptimalUtilizationRate, &offset)
	binary.PutUint8(b[offset:], r.Config.LoanToValueRatio, &offset)
	binary.PutUint8(b[offset:], r.Config.LiquidationBonus, &offset)
	binary.PutUint8(b[offset:], r.Config.LiquidationThreshold, &offset)
	binary.PutUint8(b[offset:], r.Config.MinBorrowRate, &offset)
	binary.PutUint8(b[offset:], r.Config.OptimalBorrowRate, &offset)
	binary.PutUint8(b[offset:], r.Config.MaxBorrowRate, &offset)
	binary.PutUint64(b[offset:], wadToUint64(r.Config.Fees.BorrowFeeWad), &offset)
	binary.PutUint64(b[offset:], wadToUint64(r.Config.Fees.FlashLoanFeeWad), &offset)
	binary.PutUint8(b[offset:], r.Config.Fees.HostFeePercentage, &offset)

	return b
}

// Unmarshal decodes a reserve with the same rules the lending program applies
// when it loads one.
func (r *Reserve) Unmarshal(b []byte) error {
	if len(b) != ReserveSize {
		return solana.ErrInvalidAccountData
	}
	if err := checkVersion(b[0]); err != nil {
		return err
	}

	var (
		offset int
		wad    *big.Int
		fee    uint64
	)

	binary.GetUint8(b, &r.Version, &offset)
	binary.GetUint64(b[offset:], &r.LastUpdate.Slot, &offset)
	if err := binary.GetBool(b[offset:], &r.LastUpdate.Stale, &offset); err != nil {
		return solana.ErrInvalidAccountData
	}
	binary.GetKey32(b[offset:], &r.LendingMarket, &offset)

	binary.GetKey32(b[offset:], &r.Liquidity.MintPubkey, &offset)
	binary.GetUint8(b[offset:], &r.Liquidity.MintDecimals, &offset)
	binary.GetKey32(b[offset:], &r.Liquidity.SupplyPubkey, &offset)
	binary.GetKey32(b[offset:], &r.Liquidity.FeeReceiver, &offset)
	binary.GetKey32(b[offset:], &r.Liquidity.OraclePubkey, &offset)
	binary.GetUint64(b[offset:], &r.Liquidity.AvailableAmount, &offset)
	binary.GetUint128(b[offset:], &wad, &offset)
	r.Liquidity.BorrowedAmountWads = wadFromInt(wad)
	binary.GetUint128(b[offset:], &wad, &offset)
	r.Liquidity.CumulativeBorrowRateWads = wadFromInt(wad)
	binary.GetUint128(b[offset:], &wad, &offset)
	r.Liquidity.MarketPrice = wadFromInt(wad)

	binary.GetKey32(b[offset:], &r.Collateral.MintPubkey, &offset)
	binary.GetUint64(b[offset:], &r.Collateral.MintTotalSupply, &offset)
	binary.GetKey32(b[offset:], &r.Collateral.SupplyPubkey, &offset)

	binary.GetUint8(b[offset:], &r.Config.OptimalUtilizationRate, &offset)
	binary.GetUint8(b[offset:], &r.Config.LoanToValueRatio, &offset)
	binary.GetUint8(b[offset:], &r.Config.LiquidationBonus, &offset)
	binary.GetUint8(b[offset:], &r.Config.LiquidationThreshold, &offset)
	binary.GetUint8(b[offset:], &r.Config.MinBorrowRate, &offset)
	binary.GetUint8(b[offset:], &r.Config.OptimalBorrowRate, &offset)
	binary.GetUint8(b[offset:], &r.Config.MaxBorrowRate, &offset)
	binary.GetUint64(b[offset:], &fee, &offset)
	r.Config.Fees.BorrowFeeWad = wadFromInt(new(big.Int).SetUint64(fee))
	binary.GetUint64(b[offset:], &fee, &offset)
	r.Config.Fees.FlashLoanFeeWad = wadFromInt(new(big.Int).SetUint64(fee))
	binary.GetUint8(b[offset:], &r.Config.Fees.HostFeePercentage, &offset)

	return nil
}

func checkVersion(version uint8) error {
	if version > ProgramVersion {
		return solana.ErrInvalidAccountData
	}
	if version == 0 {
		return solana.ErrUninitializedAccount
	}
	return nil
}

func wadFromInt(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -wadDecimals)
}

func wadToInt(d decimal.Decimal) *big.Int {
	return d.Shift(wadDecimals).BigInt()
}

func wadToUint64(d decimal.Decimal) uint64 {
	v := wadToInt(d)
	if !v.IsUint64() {
		return 0
	}
	return v.Uint64()
}
