// Package rollupstore provides in-memory fakes for the coordinator
// package's external collaborators (the rollup blockchain store, the main
// chain's block storage, the blockchain execution witness generator, and
// the L1 client). None of these are a production storage layer — that is
// explicitly out of scope for the proof coordinator; these fakes exist
// only to exercise coordinator tests.
package rollupstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"

	"github.com/l2rollup/proofcoordinator/coordinator"
)

// Fake is an in-memory stand-in for RollupStore, BlockStore, Blockchain,
// and EthClient, guarded by a single mutex since tests never need
// fine-grained locking.
type Fake struct {
	mu sync.RWMutex

	batchBlocks map[uint64][]uint64
	blobBundles map[uint64]blobBundle

	headers map[uint64]*types.Header
	bodies  map[uint64]*types.Body

	witnessErr   error
	witnessPanic bool

	latestVerified map[coordinator.ProverKind]uint64

	prepareErr  error
	registerErr error
	registerTx  common.Hash
}

type blobBundle struct {
	commitments []kzg4844.Commitment
	proofs      []kzg4844.Proof
}

// New returns an empty Fake ready to be populated by the Set* helpers.
func New() *Fake {
	return &Fake{
		batchBlocks:    make(map[uint64][]uint64),
		blobBundles:    make(map[uint64]blobBundle),
		headers:        make(map[uint64]*types.Header),
		bodies:         make(map[uint64]*types.Body),
		latestVerified: make(map[coordinator.ProverKind]uint64),
	}
}

// SetBatch indexes batch as covering the given block numbers.
func (f *Fake) SetBatch(batch uint64, blockNumbers ...uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	numbers := append([]uint64(nil), blockNumbers...)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	f.batchBlocks[batch] = numbers
}

// SetBlock registers a header and body for a block number.
func (f *Fake) SetBlock(number uint64, header *types.Header, body *types.Body) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers[number] = header
	f.bodies[number] = body
}

// SetBlobBundle registers the commitments and proofs cached for a batch.
func (f *Fake) SetBlobBundle(batch uint64, commitments []kzg4844.Commitment, proofs []kzg4844.Proof) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobBundles[batch] = blobBundle{commitments: commitments, proofs: proofs}
}

// SetWitnessErr forces GenerateWitness to fail with err.
func (f *Fake) SetWitnessErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.witnessErr = err
}

// SetWitnessPanic forces GenerateWitness to panic instead of returning,
// simulating a handler bug so tests can exercise per-connection isolation.
func (f *Fake) SetWitnessPanic(panics bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.witnessPanic = panics
}

// SetLatestVerified sets the on-chain latest-verified-batch counter for kind.
func (f *Fake) SetLatestVerified(kind coordinator.ProverKind, batch uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestVerified[kind] = batch
}

// SetAttestationErrs forces the TDX prerequisite/registration calls to fail.
func (f *Fake) SetAttestationErrs(prepareErr, registerErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prepareErr = prepareErr
	f.registerErr = registerErr
}

// BlockNumbersByBatch implements coordinator.RollupStore.
func (f *Fake) BlockNumbersByBatch(_ context.Context, batch uint64) ([]uint64, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	numbers, ok := f.batchBlocks[batch]
	if !ok {
		return nil, false, nil
	}
	return append([]uint64(nil), numbers...), true, nil
}

// ContainsBatch implements coordinator.RollupStore.
func (f *Fake) ContainsBatch(_ context.Context, batch uint64) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.batchBlocks[batch]
	return ok, nil
}

// BlobBundleByBatch implements coordinator.RollupStore.
func (f *Fake) BlobBundleByBatch(_ context.Context, batch uint64) ([]kzg4844.Commitment, []kzg4844.Proof, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	bundle, ok := f.blobBundles[batch]
	if !ok {
		return nil, nil, false, nil
	}
	return bundle.commitments, bundle.proofs, true, nil
}

// HeaderByNumber implements coordinator.BlockStore.
func (f *Fake) HeaderByNumber(_ context.Context, number uint64) (*types.Header, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	h, ok := f.headers[number]
	return h, ok, nil
}

// BodyByNumber implements coordinator.BlockStore.
func (f *Fake) BodyByNumber(_ context.Context, number uint64) (*types.Body, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.bodies[number]
	return b, ok, nil
}

// GenerateWitness implements coordinator.Blockchain. It returns a witness
// whose Headers field records the block numbers it was asked to cover, so
// tests can assert on ordering without needing real state proofs.
func (f *Fake) GenerateWitness(_ context.Context, blocks []*types.Block) (*coordinator.ExecutionWitness, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.witnessPanic {
		panic("fake: GenerateWitness forced panic")
	}
	if f.witnessErr != nil {
		return nil, f.witnessErr
	}
	w := &coordinator.ExecutionWitness{State: make(map[string][]byte)}
	for _, b := range blocks {
		w.Headers = append(w.Headers, []byte(fmt.Sprintf("header:%d", b.NumberU64())))
	}
	return w, nil
}

// LatestVerifiedBatch implements coordinator.EthClient.
func (f *Fake) LatestVerifiedBatch(_ context.Context, kind coordinator.ProverKind, _ common.Address) (uint64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.latestVerified[kind], nil
}

// PrepareQuotePrerequisites implements coordinator.EthClient.
func (f *Fake) PrepareQuotePrerequisites(_ context.Context, _ []byte) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.prepareErr
}

// RegisterTDXKey implements coordinator.EthClient.
func (f *Fake) RegisterTDXKey(_ context.Context, _ common.Address, _ []byte) (common.Hash, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.registerErr != nil {
		return common.Hash{}, f.registerErr
	}
	return f.registerTx, nil
}
