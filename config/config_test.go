package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLayersOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coordinator.yaml")
	contents := "listen_port: 4100\non_chain_proposer_address: \"0xabc\"\nneeded_proof_kinds: [\"risc0\", \"sp1\"]\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenPort != 4100 {
		t.Fatalf("expected overridden listen port 4100, got %d", cfg.ListenPort)
	}
	if cfg.ElasticityMultiplier != 2 {
		t.Fatalf("expected default elasticity multiplier preserved, got %d", cfg.ElasticityMultiplier)
	}
	kinds, err := cfg.ProverKinds()
	if err != nil {
		t.Fatalf("prover kinds: %v", err)
	}
	if len(kinds) != 2 {
		t.Fatalf("expected 2 prover kinds, got %d", len(kinds))
	}
}

func TestValidateRejectsEmptyProposerAddress(t *testing.T) {
	cfg := Default()
	cfg.NeededProofKinds = []string{"exec"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing proposer address")
	}
}

func TestValidateRejectsUnknownProverKind(t *testing.T) {
	cfg := Default()
	cfg.OnChainProposerAddress = "0xabc"
	cfg.NeededProofKinds = []string{"bogus"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown prover kind")
	}
}
