package solana

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// AccountInfo is the handle a program receives for every account referenced by
// an instruction. The access mode (IsWritable) and signer flag are declared by
// the caller at the call boundary and enforced by the host.
//
// Not to be confused with a token account.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool

	IsSigner   bool
	IsWritable bool
}

// Meta returns the AccountMeta describing how this account was passed in.
func (a *AccountInfo) Meta() AccountMeta {
	return AccountMeta{
		PublicKey:  a.Key,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
}

// IsOwnedBy reports whether the account is owned by the provided program.
func (a *AccountInfo) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.Owner, program)
}

// Clone returns a deep copy of the account handle.
func (a *AccountInfo) Clone() *AccountInfo {
	cloned := *a
	cloned.Key = append(ed25519.PublicKey(nil), a.Key...)
	cloned.Owner = append(ed25519.PublicKey(nil), a.Owner...)
	cloned.Data = append([]byte(nil), a.Data...)
	return &cloned
}

// Invoker issues a cross-program invocation on behalf of the running program.
//
// Accounts must contain every account referenced by the instruction, including
// the invoked program's own account. Errors raised by the invoked program are
// returned unchanged.
type Invoker interface {
	Invoke(ctx context.Context, instruction Instruction, accounts []*AccountInfo) error
}

// KeyString returns the base58 encoding of a key, or "<nil>" for an empty key.
func KeyString(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "<nil>"
	}
	return base58.Encode(key)
}

// MustDecodeKey decodes a base58 key, panicking on malformed input. It is
// intended for package level program and sysvar addresses.
func MustDecodeKey(value string) ed25519.PublicKey {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		panic("invalid key length for " + value)
	}
	return decoded
}
