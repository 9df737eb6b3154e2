// Package file provides configs sourced from a config file loaded with viper.
// Any format viper understands (yaml, json, toml) may be used.
package file

import (
	"context"
	"crypto/ed25519"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/code-payments/lending-proxy/pkg/config"
	"github.com/code-payments/lending-proxy/pkg/config/wrapper"
)

// Load reads the config file at path. A missing file yields an empty config.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()

	// viper only reports a missing file when it searches for one itself, so an
	// explicitly configured path is checked here.
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, errors.Wrap(err, "failed to check if config exists")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", path)
	}
	return v, nil
}

type conf struct {
	v   *viper.Viper
	key string
}

// NewConfig returns a config for key within v. Values are read on every Get,
// so changes picked up by v.WatchConfig are observed.
func NewConfig(v *viper.Viper, key string) config.Config {
	return &conf{
		v:   v,
		key: key,
	}
}

// Get implements Config.Get
func (c *conf) Get(_ context.Context) (interface{}, error) {
	if !c.v.IsSet(c.key) {
		return nil, config.ErrNoValue
	}

	val := c.v.GetString(c.key)
	if len(val) == 0 {
		return nil, config.ErrNoValue
	}
	return []byte(val), nil
}

// Shutdown implements Config.Shutdown
func (c *conf) Shutdown() {
}

// NewStringConfig creates a file-based string config
func NewStringConfig(v *viper.Viper, key string, defaultValue string) config.String {
	return wrapper.NewStringConfig(NewConfig(v, key), defaultValue)
}

// NewUint64Config creates a file-based uint64 config
func NewUint64Config(v *viper.Viper, key string, defaultValue uint64) config.Uint64 {
	return wrapper.NewUint64Config(NewConfig(v, key), defaultValue)
}

// NewBoolConfig creates a file-based bool config
func NewBoolConfig(v *viper.Viper, key string, defaultValue bool) config.Bool {
	return wrapper.NewBoolConfig(NewConfig(v, key), defaultValue)
}

// NewDurationConfig creates a file-based duration config
func NewDurationConfig(v *viper.Viper, key string, defaultValue time.Duration) config.Duration {
	return wrapper.NewDurationConfig(NewConfig(v, key), defaultValue)
}

// NewPublicKeyConfig creates a file-based base58 public key config
func NewPublicKeyConfig(v *viper.Viper, key string, defaultValue ed25519.PublicKey) config.PublicKey {
	return wrapper.NewPublicKeyConfig(NewConfig(v, key), defaultValue)
}
