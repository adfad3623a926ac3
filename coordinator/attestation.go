package coordinator

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

// AttestationSetup runs the TDX quote-prerequisite and key-registration
// flow triggered by a ProverSetup message. Whenever Run succeeds the caller
// replies with an Ack, whatever the prover kind: for prover kinds that need
// no setup it warns and succeeds anyway, since a client may probe
// generically without knowing whether setup applies to it.
type AttestationSetup struct {
	Eth      EthClient
	Proposer common.Address
	Log      log.Logger
}

// Run executes the setup flow for kind with the given payload. An error
// here means no Ack should be sent; the client retries by reopening the
// connection.
func (a *AttestationSetup) Run(ctx context.Context, kind ProverKind, payload []byte) error {
	if kind != ProverTDXKind {
		a.Log.Warn("prover setup requested for kind with no setup path", "kind", kind)
		return nil
	}

	if err := a.Eth.PrepareQuotePrerequisites(ctx, payload); err != nil {
		return fmt.Errorf("coordinator: could not setup TDX key: %w", err)
	}

	txHash, err := a.Eth.RegisterTDXKey(ctx, a.Proposer, payload)
	if err != nil {
		return fmt.Errorf("coordinator: could not setup TDX key: %w", err)
	}

	a.Log.Info("registered TDX key", "tx", txHash)
	return nil
}
