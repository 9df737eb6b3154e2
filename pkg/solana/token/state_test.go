package token

import (
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/solana"
)

func TestUnmarshal(t *testing.T) {
	data, err := hex.DecodeString("118a08c9d4cc46c576282e0daf050bbdb04f03313e35e5db3f3def69fa1eeec42b15a9cd4bef2cd809e464570d2a6cbd9bcc64e32ea4ebbcf748757bbb3dd5bd000084e2506ce67c000000000000000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	mint, err := base58.Decode("2BU1Xgyzqixhjaq9Pa5cNsaa1gSejLeNtDaDRv29qoZm")
	require.NoError(t, err)

	var a Account
	require.NoError(t, a.Unmarshal(data))
	assert.Equal(t, mint, []byte(a.Mint))
	assert.Equal(t, uint64(9e13*1e5), a.Amount)
	assert.Equal(t, AccountStateInitialized, a.State)
	assert.Empty(t, a.Delegate)
	assert.Empty(t, a.CloseAuthority)

	var rtt Account
	require.NoError(t, rtt.Unmarshal(a.Marshal()))
	assert.Equal(t, a, rtt)
}

func TestRoundTrip(t *testing.T) {
	keys := generateKeys(t, 4)

	isNative := uint64(2)
	expected := Account{
		Mint:            keys[0],
		Owner:           keys[1],
		Amount:          10,
		Delegate:        keys[2],
		State:           AccountStateFrozen,
		IsNative:        &isNative,
		DelegatedAmount: 5,
		CloseAuthority:  keys[3],
	}

	var actual Account
	require.NoError(t, actual.Unmarshal(expected.Marshal()))
	assert.Equal(t, expected, actual)
}

func TestUnmarshal_Invalid(t *testing.T) {
	var a Account
	assert.Equal(t, solana.ErrInvalidAccountData, a.Unmarshal(make([]byte, AccountSize-1)))
	assert.Equal(t, solana.ErrUninitializedAccount, a.Unmarshal(make([]byte, AccountSize)))

	b := (&Account{State: AccountStateInitialized}).Marshal()
	b[108] = 9
	assert.Equal(t, solana.ErrInvalidAccountData, a.Unmarshal(b))
}

func TestUnmarshal_InvalidOptionTag(t *testing.T) {
	// delegate, is_native, and close_authority tags
	for _, tagOffset := range []int{72, 109, 129} {
		for _, tag := range [][]byte{{2, 0, 0, 0}, {1, 0, 0, 1}, {0, 1, 0, 0}} {
			b := (&Account{State: AccountStateInitialized}).Marshal()
			copy(b[tagOffset:], tag)

			var a Account
			assert.Equal(t, solana.ErrInvalidAccountData, a.Unmarshal(b), "offset %d tag %v", tagOffset, tag)
		}

		b := (&Account{State: AccountStateInitialized}).Marshal()
		b[tagOffset] = 1

		var a Account
		assert.NoError(t, a.Unmarshal(b))
	}
}

func TestAllowance(t *testing.T) {
	keys := generateKeys(t, 3)
	owner, delegate, other := keys[0], keys[1], keys[2]

	account := Account{
		Owner:           owner,
		Amount:          100,
		Delegate:        delegate,
		DelegatedAmount: 40,
		State:           AccountStateInitialized,
	}

	assert.EqualValues(t, 100, account.Allowance(owner))
	assert.EqualValues(t, 40, account.Allowance(delegate))
	assert.EqualValues(t, 0, account.Allowance(other))

	account.DelegatedAmount = 500
	assert.EqualValues(t, 100, account.Allowance(delegate))

	account.State = AccountStateFrozen
	assert.EqualValues(t, 0, account.Allowance(owner))
}
