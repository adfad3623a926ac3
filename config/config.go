// Package config loads and validates the proof coordinator's
// configuration: listen address, L1 client parameters, the on-chain
// proposer address, proving-mode flags, and the set of prover kinds that
// must all verify a batch before it counts as done.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/l2rollup/proofcoordinator/coordinator"
)

// Config holds every recognized coordinator option.
type Config struct {
	// ListenIP and ListenPort form the TCP bind address for the prover
	// connection listener.
	ListenIP   string `yaml:"listen_ip"`
	ListenPort int    `yaml:"listen_port"`

	// L1RPCURLs are candidate endpoints for the L1 client; the client
	// library itself is out of this core's scope.
	L1RPCURLs []string `yaml:"l1_rpc_urls"`

	// OnChainProposerAddress is the settlement contract target for
	// latest-verified-batch queries and TDX key registration.
	OnChainProposerAddress string `yaml:"on_chain_proposer_address"`

	// ElasticityMultiplier is copied verbatim into every ProverInputData.
	ElasticityMultiplier uint64 `yaml:"elasticity_multiplier"`

	// L1PrivateKeyHex signs TDX registration transactions. Never logged.
	L1PrivateKeyHex string `yaml:"l1_private_key"`

	// Validium, when true, means data availability is off-chain and
	// blob artifacts are zeroed rather than fetched.
	Validium bool `yaml:"validium"`

	// NeededProofKinds lists the prover kinds that must all verify a
	// batch before the settlement tracker considers it done.
	NeededProofKinds []string `yaml:"needed_proof_kinds"`

	// StateDir is the root directory for the proof store's embedded KV.
	StateDir string `yaml:"state_dir"`

	// MetricsAddr, if non-empty, is the host:port the Prometheus
	// /metrics endpoint listens on.
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns a Config with conservative defaults suitable for local
// development against a single-kind, non-validium setup.
func Default() Config {
	return Config{
		ListenIP:             "127.0.0.1",
		ListenPort:           3900,
		ElasticityMultiplier: 2,
		NeededProofKinds:     []string{"exec"},
		StateDir:             "proofcoordinator-data",
		LogLevel:             "info",
	}
}

// Load reads YAML configuration from path, falling back to Default for
// any field the file does not mention, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr returns the TCP bind address for the prover connection listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.ListenIP, c.ListenPort)
}

// ProverKinds parses NeededProofKinds into coordinator.ProverKind values.
func (c *Config) ProverKinds() ([]coordinator.ProverKind, error) {
	kinds := make([]coordinator.ProverKind, 0, len(c.NeededProofKinds))
	for _, tag := range c.NeededProofKinds {
		kind, ok := parseProverKind(tag)
		if !ok {
			return nil, fmt.Errorf("config: unknown prover kind %q", tag)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func parseProverKind(tag string) (coordinator.ProverKind, bool) {
	for _, kind := range []coordinator.ProverKind{coordinator.ProverExec, coordinator.ProverRisc0, coordinator.ProverSP1, coordinator.ProverPico} {
		if kind.String() == tag {
			return kind, true
		}
	}
	return 0, false
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("config: invalid listen port: %d", c.ListenPort)
	}
	if c.OnChainProposerAddress == "" {
		return errors.New("config: on_chain_proposer_address must not be empty")
	}
	if len(c.NeededProofKinds) == 0 {
		return errors.New("config: needed_proof_kinds must not be empty")
	}
	if _, err := c.ProverKinds(); err != nil {
		return err
	}
	if c.StateDir == "" {
		return errors.New("config: state_dir must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}
