package coordinator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
)

// ExecutionWitness is the state re-execution needs: enough account, storage,
// and code data to replay a block sequence without a live state database.
// Re-executing blocks against only this witness must yield identical
// post-state to re-executing them against the real backing store.
type ExecutionWitness struct {
	Headers [][]byte          `json:"headers"`
	Codes   [][]byte          `json:"codes"`
	State   map[string][]byte `json:"state"`
}

// ProverInputData is the witness bundle handed to a prover for one batch.
type ProverInputData struct {
	Blocks               []*types.Block    `json:"blocks"`
	Witness              *ExecutionWitness `json:"witness"`
	ElasticityMultiplier uint64            `json:"elasticity_multiplier"`
	BlobCommitment       kzg4844.Commitment `json:"blob_commitment"`
	BlobProof            kzg4844.Proof      `json:"blob_proof"`
}

// BatchProof is the opaque per-kind proof envelope persisted by the proof
// store. ProverKind is carried alongside so the store can key on it; the
// remaining fields are not interpreted by this package at all (generating
// and validating the proof bytes themselves is out of scope).
type BatchProof struct {
	ProverKind  ProverKind `json:"prover_kind"`
	BatchNumber uint64     `json:"batch_number"`
	Proof       []byte     `json:"proof"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// proofDataEnvelope is the wire shape of ProofData: a type tag plus a
// payload whose fields vary by tag. This mirrors the way geth typed
// transactions tag their envelope before dispatching to variant-specific
// decoding, adapted here to a flat JSON object instead of an RLP list.
type proofDataEnvelope struct {
	Type        string            `json:"type"`
	ProverKind  *ProverKind       `json:"prover_kind,omitempty"`
	Payload     []byte            `json:"payload,omitempty"`
	BatchNumber *uint64           `json:"batch_number,omitempty"`
	Input       *ProverInputData  `json:"input,omitempty"`
	BatchProof  *BatchProof       `json:"batch_proof,omitempty"`
}

const (
	tagProverSetup     = "prover_setup"
	tagProverSetupAck  = "prover_setup_ack"
	tagBatchRequest    = "batch_request"
	tagBatchResponse   = "batch_response"
	tagProofSubmit     = "proof_submit"
	tagProofSubmitAck  = "proof_submit_ack"
)

// ProofData is the six-variant wire message exchanged over one TCP
// connection. Each value is one of the six concrete types below;
// DecodeProofData is the only supported way to obtain one from bytes.
type ProofData interface {
	tag() string
}

// ProverSetup is sent client to server to register prover key material
// ahead of proving, currently meaningful only for the TDX prover kind.
type ProverSetup struct {
	ProverKind ProverKind
	Payload    []byte
}

func (ProverSetup) tag() string { return tagProverSetup }

// ProverSetupAck acknowledges a ProverSetup, regardless of prover kind.
type ProverSetupAck struct{}

func (ProverSetupAck) tag() string { return tagProverSetupAck }

// BatchRequest asks the coordinator for the next batch of work.
type BatchRequest struct{}

func (BatchRequest) tag() string { return tagBatchRequest }

// BatchResponse answers a BatchRequest. BatchNumber and Input are either
// both present or both absent; any other combination is malformed.
type BatchResponse struct {
	BatchNumber *uint64
	Input       *ProverInputData
}

func (BatchResponse) tag() string { return tagBatchResponse }

// ProofSubmit delivers a completed proof for a batch.
type ProofSubmit struct {
	BatchNumber uint64
	BatchProof  BatchProof
}

func (ProofSubmit) tag() string { return tagProofSubmit }

// ProofSubmitAck acknowledges a ProofSubmit for the given batch number.
type ProofSubmitAck struct {
	BatchNumber uint64
}

func (ProofSubmitAck) tag() string { return tagProofSubmitAck }

// EncodeProofData serializes a ProofData value to its wire form. Callers
// write the result and half-close (or close) the connection; the protocol
// does not length-prefix frames.
func EncodeProofData(msg ProofData) ([]byte, error) {
	env := proofDataEnvelope{Type: msg.tag()}
	switch m := msg.(type) {
	case ProverSetup:
		env.ProverKind = &m.ProverKind
		env.Payload = m.Payload
	case ProverSetupAck:
	case BatchRequest:
	case BatchResponse:
		env.BatchNumber = m.BatchNumber
		env.Input = m.Input
	case ProofSubmit:
		env.BatchNumber = &m.BatchNumber
		env.BatchProof = &m.BatchProof
	case ProofSubmitAck:
		env.BatchNumber = &m.BatchNumber
	default:
		return nil, fmt.Errorf("coordinator: unknown ProofData type %T", msg)
	}
	return json.Marshal(env)
}

// DecodeProofData parses one complete message read to EOF from a
// connection. An unrecognized or inconsistent envelope is a decode error,
// logged by the caller at warn with no reply sent.
func DecodeProofData(data []byte) (ProofData, error) {
	var env proofDataEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("coordinator: decode proof data: %w", err)
	}
	switch env.Type {
	case tagProverSetup:
		if env.ProverKind == nil {
			return nil, fmt.Errorf("coordinator: %s missing prover_kind", tagProverSetup)
		}
		return ProverSetup{ProverKind: *env.ProverKind, Payload: env.Payload}, nil
	case tagProverSetupAck:
		return ProverSetupAck{}, nil
	case tagBatchRequest:
		return BatchRequest{}, nil
	case tagBatchResponse:
		if (env.BatchNumber == nil) != (env.Input == nil) {
			return nil, ErrMalformedResponse
		}
		return BatchResponse{BatchNumber: env.BatchNumber, Input: env.Input}, nil
	case tagProofSubmit:
		if env.BatchNumber == nil || env.BatchProof == nil {
			return nil, fmt.Errorf("coordinator: %s missing batch_number or batch_proof", tagProofSubmit)
		}
		return ProofSubmit{BatchNumber: *env.BatchNumber, BatchProof: *env.BatchProof}, nil
	case tagProofSubmitAck:
		if env.BatchNumber == nil {
			return nil, fmt.Errorf("coordinator: %s missing batch_number", tagProofSubmitAck)
		}
		return ProofSubmitAck{BatchNumber: *env.BatchNumber}, nil
	default:
		return nil, fmt.Errorf("coordinator: unknown proof data tag %q", env.Type)
	}
}
