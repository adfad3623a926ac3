package coordinator_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/l2rollup/proofcoordinator/coordinator"
	"github.com/l2rollup/proofcoordinator/rollupstore"
)

func TestNextBatchToVerifyMinRule(t *testing.T) {
	fake := rollupstore.New()
	fake.SetLatestVerified(coordinator.ProverRisc0, 50)
	fake.SetLatestVerified(coordinator.ProverSP1, 48)
	fake.SetBatch(49, 100, 101)

	tracker := &coordinator.SettlementTracker{
		Eth:         fake,
		Rollup:      fake,
		Proposer:    common.Address{},
		NeededKinds: []coordinator.ProverKind{coordinator.ProverRisc0, coordinator.ProverSP1},
	}

	batch, ok, err := tracker.NextBatchToVerify(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected batch to be indexed")
	}
	if batch != 49 {
		t.Fatalf("expected batch 49 (1 + min(50,48)), got %d", batch)
	}
}

func TestNextBatchToVerifyNotYetIndexed(t *testing.T) {
	fake := rollupstore.New()
	fake.SetLatestVerified(coordinator.ProverRisc0, 99)
	fake.SetLatestVerified(coordinator.ProverSP1, 99)
	// batch 100 deliberately not indexed

	tracker := &coordinator.SettlementTracker{
		Eth:         fake,
		Rollup:      fake,
		NeededKinds: []coordinator.ProverKind{coordinator.ProverRisc0, coordinator.ProverSP1},
	}

	batch, ok, err := tracker.NextBatchToVerify(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected batch not yet indexed")
	}
	if batch != 100 {
		t.Fatalf("expected candidate 100, got %d", batch)
	}
}

func TestNextBatchToVerifyMonotone(t *testing.T) {
	fake := rollupstore.New()
	fake.SetLatestVerified(coordinator.ProverRisc0, 10)
	fake.SetBatch(11, 1)

	tracker := &coordinator.SettlementTracker{
		Eth:         fake,
		Rollup:      fake,
		NeededKinds: []coordinator.ProverKind{coordinator.ProverRisc0},
	}

	first, _, err := tracker.NextBatchToVerify(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := tracker.NextBatchToVerify(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable result over unchanging state, got %d then %d", first, second)
	}

	fake.SetLatestVerified(coordinator.ProverRisc0, 11)
	fake.SetBatch(12, 1)
	third, _, err := tracker.NextBatchToVerify(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third < second {
		t.Fatalf("next batch must not decrease after a kind verifies further: got %d after %d", third, second)
	}
}
