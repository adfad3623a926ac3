package coordinator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// SettlementTracker computes the next batch number that still needs proofs
// from every required prover kind, by reading the on-chain proposer
// contract's latest-verified-batch counters.
type SettlementTracker struct {
	Eth         EthClient
	Rollup      RollupStore
	Proposer    common.Address
	NeededKinds []ProverKind
}

// NextBatchToVerify returns the next batch number requiring proofs, and
// whether the rollup store has indexed it yet. When ok is false the caller
// should reply with an empty BatchResponse; the client backs off and
// retries. A batch is "done" only once every required kind has verified
// it, so the candidate is one past the minimum across kinds.
func (t *SettlementTracker) NextBatchToVerify(ctx context.Context) (batch uint64, ok bool, err error) {
	if len(t.NeededKinds) == 0 {
		return 0, false, fmt.Errorf("coordinator: no needed prover kinds configured")
	}

	var min uint64
	for i, kind := range t.NeededKinds {
		latest, err := t.Eth.LatestVerifiedBatch(ctx, kind, t.Proposer)
		if err != nil {
			return 0, false, fmt.Errorf("coordinator: latest verified batch for %s: %w", kind, err)
		}
		if i == 0 || latest < min {
			min = latest
		}
	}

	candidate := min + 1
	contains, err := t.Rollup.ContainsBatch(ctx, candidate)
	if err != nil {
		return 0, false, fmt.Errorf("coordinator: check batch %d indexed: %w", candidate, err)
	}
	if !contains {
		return candidate, false, nil
	}
	return candidate, true, nil
}
