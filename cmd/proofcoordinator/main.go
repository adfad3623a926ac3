// Command proofcoordinator runs the proof coordinator: the TCP broker
// that hands prover clients witness bundles to prove and collects the
// resulting proofs on behalf of the batch-submission pipeline.
//
// Usage:
//
//	proofcoordinator --config coordinator.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto/kzg4844"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/l2rollup/proofcoordinator/config"
	"github.com/l2rollup/proofcoordinator/coordinator"
	"github.com/l2rollup/proofcoordinator/onchain"
)

var (
	version = "v0.1.0-dev"
)

func main() {
	app := &cli.App{
		Name:    "proofcoordinator",
		Usage:   "broker proof generation between the settlement layer and prover clients",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "coordinator.yaml", Usage: "path to the coordinator's YAML configuration"},
			&cli.StringFlag{Name: "listen", Usage: "override listen_ip:listen_port from the config file"},
			&cli.StringFlag{Name: "l1-rpc-url", Usage: "override the first l1_rpc_urls entry"},
			&cli.StringFlag{Name: "log-level", Usage: "override log_level from the config file"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if v := c.String("listen"); v != "" {
		if err := applyListenOverride(cfg, v); err != nil {
			return err
		}
	}
	if v := c.String("l1-rpc-url"); v != "" {
		cfg.L1RPCURLs = append([]string{v}, cfg.L1RPCURLs...)
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, logLevel(cfg.LogLevel), true))
	logger.Info("starting proof coordinator", "version", version, "addr", cfg.Addr(), "validium", cfg.Validium)

	proverKinds, err := cfg.ProverKinds()
	if err != nil {
		return err
	}
	if len(cfg.L1RPCURLs) == 0 {
		return fmt.Errorf("proofcoordinator: no l1_rpc_urls configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eth, err := onchain.Dial(ctx, cfg.L1RPCURLs[0], cfg.L1PrivateKeyHex)
	if err != nil {
		return err
	}
	defer eth.Close()

	store, err := coordinator.OpenProofStore(cfg.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	proposer := common.HexToAddress(cfg.OnChainProposerAddress)

	reg := prometheus.NewRegistry()
	metrics := coordinator.NewMetrics(reg)
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, reg, logger)
	}

	srv := &coordinator.Server{
		Addr: cfg.Addr(),
		Tracker: &coordinator.SettlementTracker{
			Eth:         eth,
			Rollup:      notImplementedRollupStore{},
			Proposer:    proposer,
			NeededKinds: proverKinds,
		},
		Assembler: &coordinator.WitnessAssembler{
			Rollup:               notImplementedRollupStore{},
			Blocks:               notImplementedBlockStore{},
			Chain:                notImplementedBlockchain{},
			ElasticityMultiplier: cfg.ElasticityMultiplier,
			Validium:             cfg.Validium,
		},
		Store:   store,
		Attest:  &coordinator.AttestationSetup{Eth: eth, Proposer: proposer, Log: logger},
		Metrics: metrics,
		Log:     logger.With("module", "server"),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		srv.Close()
		cancel()
	}()

	return srv.ListenAndServe(ctx)
}

func applyListenOverride(cfg *config.Config, listen string) error {
	host, portStr, err := net.SplitHostPort(listen)
	if err != nil {
		return fmt.Errorf("proofcoordinator: invalid --listen %q: %w", listen, err)
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		return fmt.Errorf("proofcoordinator: invalid --listen port %q: %w", portStr, err)
	}
	cfg.ListenIP = host
	cfg.ListenPort = port
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "err", err)
	}
}

// notImplementedRollupStore, notImplementedBlockStore, and
// notImplementedBlockchain stand in for the rollup blockchain store and
// the EVM opcode handlers, both explicitly out of scope for this core and
// referenced only by interface. A real deployment wires coordinator.Server
// to its own rollup storage and blockchain packages instead of these.
type notImplementedRollupStore struct{}

func (notImplementedRollupStore) BlockNumbersByBatch(context.Context, uint64) ([]uint64, bool, error) {
	return nil, false, fmt.Errorf("proofcoordinator: rollup store not wired in this build")
}

func (notImplementedRollupStore) ContainsBatch(context.Context, uint64) (bool, error) {
	return false, fmt.Errorf("proofcoordinator: rollup store not wired in this build")
}

func (notImplementedRollupStore) BlobBundleByBatch(context.Context, uint64) ([]kzg4844.Commitment, []kzg4844.Proof, bool, error) {
	return nil, nil, false, fmt.Errorf("proofcoordinator: rollup store not wired in this build")
}

type notImplementedBlockStore struct{}

func (notImplementedBlockStore) HeaderByNumber(context.Context, uint64) (*types.Header, bool, error) {
	return nil, false, fmt.Errorf("proofcoordinator: block store not wired in this build")
}

func (notImplementedBlockStore) BodyByNumber(context.Context, uint64) (*types.Body, bool, error) {
	return nil, false, fmt.Errorf("proofcoordinator: block store not wired in this build")
}

type notImplementedBlockchain struct{}

func (notImplementedBlockchain) GenerateWitness(context.Context, []*types.Block) (*coordinator.ExecutionWitness, error) {
	return nil, fmt.Errorf("proofcoordinator: blockchain witness generator not wired in this build")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return log.LevelDebug
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}
