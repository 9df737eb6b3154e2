package preflight

import (
	"crypto/ed25519"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/code-payments/lending-proxy/pkg/config"
	"github.com/code-payments/lending-proxy/pkg/config/env"
	"github.com/code-payments/lending-proxy/pkg/config/file"
	"github.com/code-payments/lending-proxy/pkg/config/memory"
	"github.com/code-payments/lending-proxy/pkg/config/wrapper"
	"github.com/code-payments/lending-proxy/pkg/solana/lending"
)

const (
	envConfigPrefix  = "LENDING_PROXY_"
	fileConfigPrefix = "lending_proxy."

	LendingProgramConfigName = "LENDING_PROGRAM"

	RPCCommitmentConfigName = "RPC_COMMITMENT"
	defaultRPCCommitment    = "finalized"

	CheckSourceBalanceConfigName = "CHECK_SOURCE_BALANCE"
	defaultCheckSourceBalance    = true

	MaxRPCAttemptsConfigName = "MAX_RPC_ATTEMPTS"
	defaultMaxRPCAttempts    = 3

	RPCBackoffConfigName = "RPC_BACKOFF"
	defaultRPCBackoff    = 250 * time.Millisecond

	// Requests per second, zero for unlimited
	RPCRateLimitConfigName = "RPC_RATE_LIMIT"
	defaultRPCRateLimit    = 0
)

var defaultLendingProgram = lending.ProgramKey

type conf struct {
	lendingProgram     config.PublicKey
	rpcCommitment      config.String
	checkSourceBalance config.Bool
	maxRPCAttempts     config.Uint64
	rpcBackoff         config.Duration
	rpcRateLimit       config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			lendingProgram:     env.NewPublicKeyConfig(envConfigPrefix+LendingProgramConfigName, defaultLendingProgram),
			rpcCommitment:      env.NewStringConfig(envConfigPrefix+RPCCommitmentConfigName, defaultRPCCommitment),
			checkSourceBalance: env.NewBoolConfig(envConfigPrefix+CheckSourceBalanceConfigName, defaultCheckSourceBalance),
			maxRPCAttempts:     env.NewUint64Config(envConfigPrefix+MaxRPCAttemptsConfigName, defaultMaxRPCAttempts),
			rpcBackoff:         env.NewDurationConfig(envConfigPrefix+RPCBackoffConfigName, defaultRPCBackoff),
			rpcRateLimit:       env.NewUint64Config(envConfigPrefix+RPCRateLimitConfigName, defaultRPCRateLimit),
		}
	}
}

// WithFileConfigs returns configuration pulled from the lending_proxy section
// of a loaded config file, e.g. lending_proxy.rpc_commitment.
func WithFileConfigs(v *viper.Viper) ConfigProvider {
	key := func(name string) string {
		return fileConfigPrefix + strings.ToLower(name)
	}

	return func() *conf {
		return &conf{
			lendingProgram:     file.NewPublicKeyConfig(v, key(LendingProgramConfigName), defaultLendingProgram),
			rpcCommitment:      file.NewStringConfig(v, key(RPCCommitmentConfigName), defaultRPCCommitment),
			checkSourceBalance: file.NewBoolConfig(v, key(CheckSourceBalanceConfigName), defaultCheckSourceBalance),
			maxRPCAttempts:     file.NewUint64Config(v, key(MaxRPCAttemptsConfigName), defaultMaxRPCAttempts),
			rpcBackoff:         file.NewDurationConfig(v, key(RPCBackoffConfigName), defaultRPCBackoff),
			rpcRateLimit:       file.NewUint64Config(v, key(RPCRateLimitConfigName), defaultRPCRateLimit),
		}
	}
}

type testOverrides struct {
	lendingProgram     ed25519.PublicKey
	disableSourceCheck bool
	maxRPCAttempts     uint64
	rpcRateLimit       uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	lendingProgram := defaultLendingProgram
	if len(overrides.lendingProgram) > 0 {
		lendingProgram = overrides.lendingProgram
	}

	maxRPCAttempts := uint64(defaultMaxRPCAttempts)
	if overrides.maxRPCAttempts > 0 {
		maxRPCAttempts = overrides.maxRPCAttempts
	}

	return func() *conf {
		return &conf{
			lendingProgram:     wrapper.NewPublicKeyConfig(memory.NewConfig(lendingProgram), defaultLendingProgram),
			rpcCommitment:      wrapper.NewStringConfig(memory.NewConfig(defaultRPCCommitment), defaultRPCCommitment),
			checkSourceBalance: wrapper.NewBoolConfig(memory.NewConfig(!overrides.disableSourceCheck), defaultCheckSourceBalance),
			maxRPCAttempts:     wrapper.NewUint64Config(memory.NewConfig(maxRPCAttempts), defaultMaxRPCAttempts),
			rpcBackoff:         wrapper.NewDurationConfig(memory.NewConfig(time.Duration(0)), defaultRPCBackoff),
			rpcRateLimit:       wrapper.NewUint64Config(memory.NewConfig(overrides.rpcRateLimit), defaultRPCRateLimit),
		}
	}
}
