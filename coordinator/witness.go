package coordinator

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// WitnessAssembler implements create_prover_input: given a batch number it
// resolves the batch's blocks, asks the chain for an execution witness
// covering them, and attaches blob artifacts (or zeroes, under validium).
type WitnessAssembler struct {
	Rollup               RollupStore
	Blocks               BlockStore
	Chain                Blockchain
	ElasticityMultiplier uint64
	Validium             bool
}

// Assemble builds the ProverInputData for batch. blocks is always returned
// ordered by ascending block number, matching the rollup store's index.
func (w *WitnessAssembler) Assemble(ctx context.Context, batch uint64) (*ProverInputData, error) {
	numbers, ok, err := w.Rollup.BlockNumbersByBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("coordinator: resolve batch %d: %w", batch, err)
	}
	if !ok {
		return nil, fmt.Errorf("coordinator: batch %d: %w", batch, ErrItemNotFound)
	}

	ordered := append([]uint64(nil), numbers...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	blocks := make([]*types.Block, 0, len(ordered))
	for _, n := range ordered {
		header, ok, err := w.Blocks.HeaderByNumber(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("coordinator: header for block %d: %w", n, err)
		}
		if !ok {
			return nil, fmt.Errorf("coordinator: header for block %d: %w", n, ErrStorageDataIsNone)
		}
		body, ok, err := w.Blocks.BodyByNumber(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("coordinator: body for block %d: %w", n, err)
		}
		if !ok {
			return nil, fmt.Errorf("coordinator: body for block %d: %w", n, ErrStorageDataIsNone)
		}
		blocks = append(blocks, types.NewBlockWithHeader(header).WithBody(*body))
	}

	witness, err := w.Chain.GenerateWitness(ctx, blocks)
	if err != nil {
		return nil, fmt.Errorf("coordinator: generate witness for batch %d: %w", batch, err)
	}

	var commitment kzg4844.Commitment
	var proof kzg4844.Proof
	if !w.Validium {
		commitments, proofs, ok, err := w.Rollup.BlobBundleByBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("coordinator: blob bundle for batch %d: %w", batch, err)
		}
		if !ok || len(commitments) == 0 || len(proofs) == 0 {
			return nil, fmt.Errorf("coordinator: batch %d: %w", batch, ErrMissingBlob)
		}
		// The bundle is constructed per batch from a single blob; the
		// last entry is the one just produced for this batch. See
		// open question on blob selection: "take last" is preserved
		// verbatim rather than asserting len == 1.
		commitment = commitments[len(commitments)-1]
		proof = proofs[len(proofs)-1]
	}

	return &ProverInputData{
		Blocks:               blocks,
		Witness:              witness,
		ElasticityMultiplier: w.ElasticityMultiplier,
		BlobCommitment:       commitment,
		BlobProof:            proof,
	}, nil
}
