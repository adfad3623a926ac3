package coordinator

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// RollupStore is the batch index and blob cache maintained by the rollup's
// own storage layer. It is an external collaborator: this package only
// ever talks to it through this interface.
type RollupStore interface {
	// BlockNumbersByBatch resolves a batch number to the ordered block
	// numbers it covers. ok is false when the batch is not indexed yet.
	BlockNumbersByBatch(ctx context.Context, batch uint64) (numbers []uint64, ok bool, err error)

	// ContainsBatch reports whether the batch has been indexed at all,
	// independent of whether its proofs exist.
	ContainsBatch(ctx context.Context, batch uint64) (bool, error)

	// BlobBundleByBatch returns the cached EIP-4844 blob commitments and
	// proofs produced for this batch. ok is false when validium mode is
	// in effect or the batch has no cached bundle.
	BlobBundleByBatch(ctx context.Context, batch uint64) (commitments []kzg4844.Commitment, proofs []kzg4844.Proof, ok bool, err error)
}

// BlockStore is the main chain's block storage. An external collaborator,
// referenced only by interface.
type BlockStore interface {
	HeaderByNumber(ctx context.Context, number uint64) (*types.Header, bool, error)
	BodyByNumber(ctx context.Context, number uint64) (*types.Body, bool, error)
}

// Blockchain generates execution witnesses for a block sequence. An
// external collaborator; the EVM opcode handlers behind this call are out
// of scope for this package.
type Blockchain interface {
	GenerateWitness(ctx context.Context, blocks []*types.Block) (*ExecutionWitness, error)
}

// EthClient is the coordinator's view of the L1 client library and the
// on-chain proposer contract. An external collaborator, referenced only by
// interface.
type EthClient interface {
	// LatestVerifiedBatch returns the latest batch number the given
	// prover kind's verifier has accepted, per proposer.
	LatestVerifiedBatch(ctx context.Context, kind ProverKind, proposer common.Address) (uint64, error)

	// PrepareQuotePrerequisites runs the chain-specific precondition
	// transactions ahead of TDX key registration. Safe to re-run.
	PrepareQuotePrerequisites(ctx context.Context, payload []byte) error

	// RegisterTDXKey submits the on-chain TDX key registration
	// transaction, signed by the coordinator's L1 key.
	RegisterTDXKey(ctx context.Context, proposer common.Address, payload []byte) (common.Hash, error)
}
