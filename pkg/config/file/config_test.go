package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/lending-proxy/pkg/config"
)

const testConfig = `
lending_proxy:
  lending_program: LendZqTs7gn5CTSJU1jWKhKuVpjJGom45nnwPb2AMTi
  rpc_commitment: confirmed
  check_allowance: false
  rpc_timeout: 3s
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	v, err := Load(path)
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "confirmed", NewStringConfig(v, "lending_proxy.rpc_commitment", "finalized").Get(ctx))
	assert.False(t, NewBoolConfig(v, "lending_proxy.check_allowance", true).Get(ctx))
	assert.Equal(t, 3*time.Second, NewDurationConfig(v, "lending_proxy.rpc_timeout", time.Second).Get(ctx))
	assert.Len(t, NewPublicKeyConfig(v, "lending_proxy.lending_program", nil).Get(ctx), 32)

	_, err = NewConfig(v, "lending_proxy.missing").Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestLoad_Missing(t *testing.T) {
	v, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "finalized", NewStringConfig(v, "lending_proxy.rpc_commitment", "finalized").Get(context.Background()))
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lending_proxy: [\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
