package coordinator_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"

	"github.com/l2rollup/proofcoordinator/coordinator"
	"github.com/l2rollup/proofcoordinator/rollupstore"
)

func header(number uint64) *types.Header {
	return &types.Header{Number: new(big.Int).SetUint64(number)}
}

func TestAssembleOrdersBlocksAscending(t *testing.T) {
	fake := rollupstore.New()
	fake.SetBatch(42, 101, 100)
	fake.SetBlock(100, header(100), &types.Body{})
	fake.SetBlock(101, header(101), &types.Body{})
	fake.SetBlobBundle(42, []kzg4844.Commitment{{1}, {2}}, []kzg4844.Proof{{3}, {4}})

	assembler := &coordinator.WitnessAssembler{
		Rollup:               fake,
		Blocks:               fake,
		Chain:                fake,
		ElasticityMultiplier: 2,
	}

	input, err := assembler.Assemble(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(input.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(input.Blocks))
	}
	if input.Blocks[0].NumberU64() != 100 || input.Blocks[1].NumberU64() != 101 {
		t.Fatalf("expected ascending order [100,101], got [%d,%d]", input.Blocks[0].NumberU64(), input.Blocks[1].NumberU64())
	}
	if input.BlobCommitment != ([48]byte{2}) {
		t.Fatalf("expected last commitment selected, got %v", input.BlobCommitment)
	}
	if input.BlobProof != ([48]byte{4}) {
		t.Fatalf("expected last proof selected, got %v", input.BlobProof)
	}
	if input.ElasticityMultiplier != 2 {
		t.Fatalf("expected elasticity multiplier copied through, got %d", input.ElasticityMultiplier)
	}
}

func TestAssembleUnknownBatch(t *testing.T) {
	fake := rollupstore.New()
	assembler := &coordinator.WitnessAssembler{Rollup: fake, Blocks: fake, Chain: fake}

	if _, err := assembler.Assemble(context.Background(), 1); !errors.Is(err, coordinator.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestAssembleMissingBlockData(t *testing.T) {
	fake := rollupstore.New()
	fake.SetBatch(1, 5)
	assembler := &coordinator.WitnessAssembler{Rollup: fake, Blocks: fake, Chain: fake}

	if _, err := assembler.Assemble(context.Background(), 1); !errors.Is(err, coordinator.ErrStorageDataIsNone) {
		t.Fatalf("expected ErrStorageDataIsNone, got %v", err)
	}
}

func TestAssembleValidiumZeroesBlobFields(t *testing.T) {
	fake := rollupstore.New()
	fake.SetBatch(1, 5)
	fake.SetBlock(5, header(5), &types.Body{})

	assembler := &coordinator.WitnessAssembler{Rollup: fake, Blocks: fake, Chain: fake, Validium: true}
	input, err := assembler.Assemble(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.BlobCommitment != (kzg4844.Commitment{}) || input.BlobProof != (kzg4844.Proof{}) {
		t.Fatalf("expected zeroed blob fields under validium, got %v / %v", input.BlobCommitment, input.BlobProof)
	}
}

func TestAssembleMissingBlob(t *testing.T) {
	fake := rollupstore.New()
	fake.SetBatch(1, 5)
	fake.SetBlock(5, header(5), &types.Body{})
	// no blob bundle registered for batch 1

	assembler := &coordinator.WitnessAssembler{Rollup: fake, Blocks: fake, Chain: fake}
	if _, err := assembler.Assemble(context.Background(), 1); !errors.Is(err, coordinator.ErrMissingBlob) {
		t.Fatalf("expected ErrMissingBlob, got %v", err)
	}
}
