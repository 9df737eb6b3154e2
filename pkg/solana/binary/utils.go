// Package binary contains helpers for fixed layout account and instruction
// encodings. Every helper writes to (or reads from) the start of the provided
// slice and advances offset by the number of bytes consumed.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
)

const Uint128Size = 16

var (
	ErrInvalidBool      = errors.New("invalid bool value")
	ErrInvalidOptionTag = errors.New("invalid option tag")
)

var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst[:ed25519.PublicKeySize], src)
	*offset += ed25519.PublicKeySize
}

func PutOptionalKey32(dst []byte, src []byte, offset *int, optionSize int) {
	if len(src) > 0 {
		dst[0] = 1
		copy(dst[optionSize:], src)
	}

	*offset += optionSize + ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int, optionSize int) {
	if v != nil {
		dst[0] = 1
		binary.LittleEndian.PutUint64(dst[optionSize:], *v)
	}
	*offset += optionSize + 8
}

func PutBool(dst []byte, v bool, offset *int) {
	if v {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	*offset += 1
}

// PutUint128 writes v as a little endian u128. Nil, negative, or overflowing
// values are written as zero.
func PutUint128(dst []byte, v *big.Int, offset *int) {
	buf := dst[:Uint128Size]
	for i := range buf {
		buf[i] = 0
	}

	if v != nil && v.Sign() > 0 && v.Cmp(maxUint128) <= 0 {
		be := v.Bytes()
		for i, b := range be {
			buf[len(be)-1-i] = b
		}
	}

	*offset += Uint128Size
}

// PutBytes copies a fixed width field, zero padding when src is shorter.
func PutBytes(dst []byte, src []byte, size int, offset *int) {
	n := copy(dst[:size], src)
	for i := n; i < size; i++ {
		dst[i] = 0
	}
	*offset += size
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src)
	*offset += ed25519.PublicKeySize
}

// GetOptionalKey32 reads an option tag followed by a key. The tag must be 0
// (none) or 1 (some); dst and offset are untouched otherwise.
func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int, optionSize int) error {
	present, err := getOptionTag(src, optionSize)
	if err != nil {
		return err
	}
	if present {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[optionSize:])
	}
	*offset += optionSize + ed25519.PublicKeySize
	return nil
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

func GetOptionalUint64(src []byte, dst **uint64, offset *int, optionSize int) error {
	present, err := getOptionTag(src, optionSize)
	if err != nil {
		return err
	}
	if present {
		val := binary.LittleEndian.Uint64(src[optionSize:])
		*dst = &val
	}
	*offset += optionSize + 8
	return nil
}

// GetBool accepts only 0 and 1.
func GetBool(src []byte, dst *bool, offset *int) error {
	switch src[0] {
	case 0:
		*dst = false
	case 1:
		*dst = true
	default:
		return ErrInvalidBool
	}
	*offset += 1
	return nil
}

// getOptionTag decodes a little endian tag of optionSize bytes.
func getOptionTag(src []byte, optionSize int) (bool, error) {
	for _, b := range src[1:optionSize] {
		if b != 0 {
			return false, ErrInvalidOptionTag
		}
	}

	switch src[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidOptionTag
	}
}

func GetUint128(src []byte, dst **big.Int, offset *int) {
	be := make([]byte, Uint128Size)
	for i := 0; i < Uint128Size; i++ {
		be[Uint128Size-1-i] = src[i]
	}
	*dst = new(big.Int).SetBytes(be)
	*offset += Uint128Size
}

func GetBytes(src []byte, dst []byte, offset *int) {
	copy(dst, src[:len(dst)])
	*offset += len(dst)
}
