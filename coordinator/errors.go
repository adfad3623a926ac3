package coordinator

import "errors"

// Sentinel errors surfaced through handler logs. Each maps to one entry in
// the error taxonomy: transport, decode, storage, settlement, attestation,
// serialization.
var (
	// ErrItemNotFound is returned when a batch number has no entry in the
	// rollup store's batch index.
	ErrItemNotFound = errors.New("coordinator: item not found in store")

	// ErrStorageDataIsNone is returned when a block header or body that the
	// rollup store's batch index promised turns out to be missing from the
	// block store.
	ErrStorageDataIsNone = errors.New("coordinator: storage data is none")

	// ErrMissingBlob is returned when a batch's cached blob bundle is absent,
	// or present but has no trailing commitment/proof pair.
	ErrMissingBlob = errors.New("coordinator: missing blob")

	// ErrMalformedResponse guards the BatchResponse totality invariant.
	ErrMalformedResponse = errors.New("coordinator: batch_number and input must both be present or both absent")
)
