package token

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

func TestApprove(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := Approve(keys[0], keys[1], keys[2], 123456)

	assert.EqualValues(t, CommandApprove, instruction.Data[0])
	assert.EqualValues(t, 123456, binary.LittleEndian.Uint64(instruction.Data[1:]))

	assert.False(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.False(t, instruction.Accounts[1].IsWritable)
	assert.True(t, instruction.Accounts[2].IsSigner)
	assert.False(t, instruction.Accounts[2].IsWritable)

	decompiled, err := DecompileApprove(instruction)
	require.NoError(t, err)
	assert.Equal(t, keys[0], decompiled.Source)
	assert.Equal(t, keys[1], decompiled.Delegate)
	assert.Equal(t, keys[2], decompiled.Owner)
	assert.EqualValues(t, 123456, decompiled.Amount)

	instruction.Accounts = instruction.Accounts[:2]
	_, err = DecompileApprove(instruction)
	assert.True(t, strings.Contains(err.Error(), "invalid number of accounts"))

	instruction.Data = instruction.Data[:5]
	_, err = DecompileApprove(instruction)
	assert.True(t, strings.Contains(err.Error(), "invalid instruction data size"))

	instruction.Data[0] = byte(CommandTransfer)
	_, err = DecompileApprove(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = nil
	_, err = DecompileApprove(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileApprove(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		keys[i] = pub
	}

	return keys
}
