// Package onchain implements the coordinator's EthClient: ABI-encoded
// calls against the on-chain proposer contract and its per-kind verifier
// contracts, over a real go-ethereum JSON-RPC client.
package onchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/l2rollup/proofcoordinator/coordinator"
)

var (
	uint256Type, _ = abi.NewType("uint256", "", nil)
	addressType, _ = abi.NewType("address", "", nil)
	bytesType, _   = abi.NewType("bytes", "", nil)

	latestVerifiedArgs = abi.Arguments{{Type: uint256Type}}
	verifierGetterArgs = abi.Arguments{{Type: addressType}}
	bytesArgs          = abi.Arguments{{Type: bytesType}}
)

// ProposerClient implements coordinator.EthClient against a real L1 node
// via go-ethereum's ethclient, signing transactions with the coordinator's
// own key.
type ProposerClient struct {
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	chainID    *big.Int
}

// Dial connects to the given RPC URL and loads the coordinator's signing
// key from its hex representation.
func Dial(ctx context.Context, rpcURL, privateKeyHex string) (*ProposerClient, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("onchain: dial %s: %w", rpcURL, err)
	}
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("onchain: parse l1 private key: %w", err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("onchain: fetch chain id: %w", err)
	}
	return &ProposerClient{client: client, privateKey: key, chainID: chainID}, nil
}

// Close releases the underlying RPC connection.
func (p *ProposerClient) Close() {
	p.client.Close()
}

// LatestVerifiedBatch implements coordinator.EthClient. For non-Exec
// kinds it first discovers the deployed verifier contract via the
// proposer's verifier-getter selector, then reads that verifier's
// latest-verified-batch counter; Exec reads the counter directly on the
// proposer.
func (p *ProposerClient) LatestVerifiedBatch(ctx context.Context, kind coordinator.ProverKind, proposer common.Address) (uint64, error) {
	target := proposer
	if selector, ok := kind.VerifierSelector(); ok {
		verifier, err := p.callAddress(ctx, proposer, selector)
		if err != nil {
			return 0, fmt.Errorf("onchain: discover verifier for %s: %w", kind, err)
		}
		target = verifier
	}

	n, err := p.callUint256(ctx, target, "latestVerifiedBatch()")
	if err != nil {
		return 0, fmt.Errorf("onchain: latest verified batch for %s: %w", kind, err)
	}
	return n.Uint64(), nil
}

// PrepareQuotePrerequisites runs the chain-specific precondition
// transactions ahead of TDX key registration. Safe to re-run.
func (p *ProposerClient) PrepareQuotePrerequisites(ctx context.Context, payload []byte) error {
	_, err := p.sendRaw(ctx, common.Address{}, packCall("prepareQuotePrerequisites(bytes)", payload))
	return err
}

// RegisterTDXKey submits the TDX key registration transaction to the
// proposer contract, signed by the coordinator's L1 key.
func (p *ProposerClient) RegisterTDXKey(ctx context.Context, proposer common.Address, payload []byte) (common.Hash, error) {
	return p.sendRaw(ctx, proposer, packCall("registerTDXKey(bytes)", payload))
}

func packCall(selector string, payload []byte) []byte {
	packed, _ := bytesArgs.Pack(payload)
	return append(crypto.Keccak256([]byte(selector))[:4], packed...)
}

func (p *ProposerClient) callAddress(ctx context.Context, to common.Address, selector string) (common.Address, error) {
	out, err := p.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: crypto.Keccak256([]byte(selector))[:4]}, nil)
	if err != nil {
		return common.Address{}, err
	}
	values, err := verifierGetterArgs.Unpack(out)
	if err != nil || len(values) == 0 {
		return common.Address{}, fmt.Errorf("onchain: unpack address result: %w", err)
	}
	addr, _ := values[0].(common.Address)
	return addr, nil
}

func (p *ProposerClient) callUint256(ctx context.Context, to common.Address, selector string) (*big.Int, error) {
	out, err := p.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: crypto.Keccak256([]byte(selector))[:4]}, nil)
	if err != nil {
		return nil, err
	}
	values, err := latestVerifiedArgs.Unpack(out)
	if err != nil || len(values) == 0 {
		return nil, fmt.Errorf("onchain: unpack uint256 result: %w", err)
	}
	n, _ := values[0].(*big.Int)
	return n, nil
}

func (p *ProposerClient) sendRaw(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	from := crypto.PubkeyToAddress(p.privateKey.PublicKey)
	nonce, err := p.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("onchain: nonce: %w", err)
	}
	gasPrice, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("onchain: gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      500_000,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.NewEIP155Signer(p.chainID), p.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("onchain: sign tx: %w", err)
	}
	if err := p.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("onchain: send tx: %w", err)
	}
	return signed.Hash(), nil
}
