// Package coordinator implements the proof coordinator: the TCP broker that
// hands prover clients witness bundles to prove and collects the resulting
// proofs on behalf of the batch-submission pipeline.
package coordinator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ProverKind is the closed set of proof systems the coordinator knows how
// to hand work to and persist results for. The set is tied to the on-chain
// verifier layout and is not meant to be extended by configuration.
type ProverKind uint8

const (
	// ProverExec bypasses zero-knowledge proving entirely; batches are
	// submitted with empty calldata and trusted execution only.
	ProverExec ProverKind = iota
	ProverRisc0
	ProverSP1
	ProverPico

	// ProverTDXKind identifies prover setup messages carrying TDX
	// attestation key material. It never appears in the proving
	// taxonomy proper (no verifier selector, no empty-calldata shape);
	// it exists only as a ProverSetup discriminator.
	ProverTDXKind
)

// String returns the human-readable tag for the prover kind.
func (k ProverKind) String() string {
	switch k {
	case ProverExec:
		return "exec"
	case ProverRisc0:
		return "risc0"
	case ProverSP1:
		return "sp1"
	case ProverPico:
		return "pico"
	case ProverTDXKind:
		return "tdx"
	default:
		return "unknown"
	}
}

// VerifierSelector returns the on-chain getter used to discover the
// deployed verifier contract for this prover kind. Exec has none, since the
// exec path never goes through on-chain proof verification.
func (k ProverKind) VerifierSelector() (string, bool) {
	switch k {
	case ProverRisc0:
		return "R0VERIFIER()", true
	case ProverSP1:
		return "SP1VERIFIER()", true
	case ProverPico:
		return "PICOVERIFIER()", true
	default:
		return "", false
	}
}

var (
	abiBytes, _    = abi.NewType("bytes", "", nil)
	abiBytes32, _  = abi.NewType("bytes32", "", nil)
	abiUint256x8, _ = abi.NewType("uint256[8]", "", nil)
)

// EmptyCalldata returns the ABI-typed argument list verifyBatch expects for
// this prover kind when no real proof is being submitted (e.g. an exec-only
// run). Positions and types must match the on-chain overload exactly; ok is
// false for Exec, whose path never reaches on-chain verification.
func (k ProverKind) EmptyCalldata() (values []interface{}, types []abi.Type, ok bool) {
	switch k {
	case ProverRisc0:
		// seal, image_id
		return []interface{}{[]byte{}, [32]byte{}}, []abi.Type{abiBytes, abiBytes32}, true
	case ProverSP1:
		// vkey, proof_bytes
		return []interface{}{[32]byte{}, []byte{}}, []abi.Type{abiBytes32, abiBytes}, true
	case ProverPico:
		// riscv_vkey, proof
		var zeroProof [8]*big.Int
		for i := range zeroProof {
			zeroProof[i] = new(big.Int)
		}
		return []interface{}{[32]byte{}, zeroProof}, []abi.Type{abiBytes32, abiUint256x8}, true
	default:
		return nil, nil, false
	}
}
