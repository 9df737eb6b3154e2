package solana

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgramAddress(t *testing.T) {
	exceededSeed := make([]byte, maxSeedLength+1)
	maxSeed := make([]byte, maxSeedLength)

	// The typo is carried over from the Solana SDK test case the expected
	// outputs were derived from.
	seedKey := MustDecodeKey("SeedPubey1111111111111111111111111111111111")
	program := MustDecodeKey("BPFLoader1111111111111111111111111111111111")

	_, err := CreateProgramAddress(program, exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	_, err = CreateProgramAddress(program, []byte("short seed"), exceededSeed)
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(program, maxSeed)
	assert.NoError(t, err)

	tooMany := make([][]byte, maxSeeds+1)
	_, err = CreateProgramAddress(program, tooMany...)
	assert.Equal(t, ErrTooManySeeds, err)

	for _, tc := range []struct {
		expected string
		seeds    [][]byte
	}{
		{"3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT", [][]byte{{}, {1}}},
		{"7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7", [][]byte{[]byte("☉")}},
		{"HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds", [][]byte{[]byte("Talking"), []byte("Squirrels")}},
		{"GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K", [][]byte{seedKey}},
	} {
		address, err := CreateProgramAddress(program, tc.seeds...)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(address))
	}
}

func TestFindProgramAddress(t *testing.T) {
	program := MustDecodeKey("BPFLoader1111111111111111111111111111111111")

	for _, seed := range []string{"", "Lil'", "Bits", "lending-market"} {
		address, bump, err := FindProgramAddressAndBump(program, []byte(seed))
		require.NoError(t, err)

		derived, err := CreateProgramAddress(program, []byte(seed), []byte{bump})
		require.NoError(t, err)
		assert.Equal(t, address, derived)

		withoutBump, err := FindProgramAddress(program, []byte(seed))
		require.NoError(t, err)
		assert.Equal(t, address, withoutBump)
	}
}
