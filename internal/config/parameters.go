package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"

	probeerrors "github.com/alexisbeaulieu97/probe/pkg/errors"
)

const (
	// DeactivateConditionsKey holds a glob matched against condition names;
	// matching conditions are not consulted. "*" deactivates all conditions.
	DeactivateConditionsKey = "probe.conditions.deactivate"
	// EmptyProviderPolicyKey selects how an active invocation context
	// provider that yields nothing is treated.
	EmptyProviderPolicyKey = "probe.invocation.empty-provider-policy"
	// LogLevelKey sets the engine log level.
	LogLevelKey = "probe.log.level"

	// envKeyPrefix limits environment lookups to the engine's own keys.
	envKeyPrefix = "probe."
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// EmptyProviderPolicy controls the response to an active provider that
// yields no invocation contexts.
type EmptyProviderPolicy string

const (
	// PolicyFail reports the test as failed with a provider contract error.
	PolicyFail EmptyProviderPolicy = "fail"
	// PolicyIgnore treats the provider as having contributed no invocations.
	PolicyIgnore EmptyProviderPolicy = "ignore"
)

// Parameters exposes read-only configuration parameters to the engine and
// its extensions.
type Parameters struct {
	v   *viper.Viper
	env bool
}

// LoadOptions describes the sources merged into a Parameters set. Later
// sources win: defaults, file, environment, overrides. The environment is
// consulted only for keys under "probe.", as PROBE_<KEY> with dots and
// dashes turned into underscores.
type LoadOptions struct {
	Defaults  map[string]string
	File      string
	Env       bool
	Overrides map[string]string
}

// Load builds a Parameters set from the configured sources.
func Load(opts LoadOptions) (*Parameters, error) {
	v := newViper()
	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}

	if strings.TrimSpace(opts.File) != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, probeerrors.NewParseError(opts.File, 0, err)
		}
	}

	if opts.Env {
		keys := append([]string{DeactivateConditionsKey, EmptyProviderPolicyKey, LogLevelKey}, v.AllKeys()...)
		for key := range opts.Overrides {
			keys = append(keys, key)
		}
		for _, key := range keys {
			if !isEnvKey(key) {
				continue
			}
			if err := v.BindEnv(key, envName(key)); err != nil {
				return nil, fmt.Errorf("bind environment for %s: %w", key, err)
			}
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	params := &Parameters{v: v, env: opts.Env}
	if _, err := params.EmptyProviderPolicy(); err != nil {
		return nil, err
	}
	return params, nil
}

// FromMap builds an in-memory Parameters set.
func FromMap(values map[string]string) *Parameters {
	v := newViper()
	for key, value := range values {
		v.Set(key, value)
	}
	return &Parameters{v: v}
}

// Empty returns a Parameters set containing only defaults.
func Empty() *Parameters {
	return &Parameters{v: newViper()}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(EmptyProviderPolicyKey, string(PolicyFail))
	return v
}

func isEnvKey(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), envKeyPrefix)
}

func envName(key string) string {
	return strings.ToUpper(envKeyReplacer.Replace(key))
}

// Get returns the raw value for key and whether it was set.
func (p *Parameters) Get(key string) (string, bool) {
	if p == nil || p.v == nil {
		return "", false
	}
	if p.v.IsSet(key) {
		return p.v.GetString(key), true
	}
	// Keys no other source mentions were not bound at load time.
	if p.env && isEnvKey(key) {
		if value := os.Getenv(envName(key)); value != "" {
			return value, true
		}
	}
	return "", false
}

// EmptyProviderPolicy returns the configured policy, defaulting to PolicyFail.
func (p *Parameters) EmptyProviderPolicy() (EmptyProviderPolicy, error) {
	raw, ok := p.Get(EmptyProviderPolicyKey)
	if !ok {
		return PolicyFail, nil
	}
	switch policy := EmptyProviderPolicy(strings.ToLower(strings.TrimSpace(raw))); policy {
	case PolicyFail, PolicyIgnore:
		return policy, nil
	default:
		return PolicyFail, probeerrors.NewValidationError(
			EmptyProviderPolicyKey,
			fmt.Sprintf("unsupported value %q (expected %q or %q)", raw, PolicyFail, PolicyIgnore),
			nil,
		)
	}
}

// Keys lists every key with a value, sorted.
func (p *Parameters) Keys() []string {
	if p == nil || p.v == nil {
		return nil
	}
	var keys []string
	for _, key := range p.v.AllKeys() {
		if p.v.IsSet(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
