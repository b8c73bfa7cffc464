package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ethereum-optimism/op-seatbelt/bridge"
	"github.com/ethereum-optimism/op-seatbelt/checks"
	"github.com/ethereum-optimism/op-seatbelt/config"
	"github.com/ethereum-optimism/op-seatbelt/crosschain"
	"github.com/ethereum-optimism/op-seatbelt/flags"
	"github.com/ethereum-optimism/op-seatbelt/metrics"
	"github.com/ethereum-optimism/op-seatbelt/proposal"
	"github.com/ethereum-optimism/op-seatbelt/sim"
	"github.com/ethereum-optimism/op-seatbelt/verify"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "seatbelt"
	app.Usage = "Simulates governance proposals and checks them for dangerous effects before execution"
	app.Flags = flags.Flags
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		log.Crit("Application failed", "err", err)
	}
}

// actionReport is the per-action output: one proposal action, its check
// results and its cross-chain replay aggregate.
type actionReport struct {
	Action     int                       `json:"action"`
	Target     common.Address            `json:"target"`
	Checks     map[string]*checks.Result `json:"checks"`
	CrossChain *crosschain.Result        `json:"crossChain"`
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context
	logger := newLogger(cliCtx.String(flags.LogLevelFlag.Name))

	cfg, err := config.Load(cliCtx.String(flags.ConfigFlag.Name))
	if err != nil {
		return err
	}
	if url := cliCtx.String(flags.RPCURLFlag.Name); url != "" {
		cfg.RPCURL = url
	}
	if url := cliCtx.String(flags.BackendURLFlag.Name); url != "" {
		cfg.BackendURL = url
	}
	if key := cliCtx.String(flags.BackendKeyFlag.Name); key != "" {
		cfg.BackendKey = key
	}
	if err := cfg.Check(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	data, err := os.ReadFile(cliCtx.String(flags.ProposalFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to read proposal: %w", err)
	}
	var prop proposal.Proposal
	if err := json.Unmarshal(data, &prop); err != nil {
		return fmt.Errorf("failed to parse proposal: %w", err)
	}
	if err := prop.Check(); err != nil {
		return err
	}

	backend := sim.NewClient(logger, cfg.BackendURL, cfg.BackendKey, cfg.SupportedChains)
	orch := crosschain.NewOrchestrator(logger, backend, metrics.NewMetrics(prometheus.NewRegistry()), cfg.Placeholder(),
		bridge.NewArbitrumParser(logger, cfg.ArbitrumInboxAddress(), cfg.ArbitrumChainID),
		bridge.NewOptimismParser(logger, cfg.Messengers()),
	)

	ethClient, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial RPC: %w", err)
	}
	defer ethClient.Close()
	classifier := checks.NewClassifier(ethClient, cfg.Trusted())
	checkList := []checks.Check{
		checks.NewTargetsSelfdestructCheck(logger, classifier, cfg.Placeholder()),
		checks.NewTouchedSelfdestructCheck(logger, classifier, cfg.Placeholder()),
		checks.NewEventsCheck(logger),
		checks.NewBalanceCheck(logger),
		checks.NewCrossChainCheck(logger),
	}
	if url := cliCtx.String(flags.ExplorerURLFlag.Name); url != "" {
		verifier := verify.NewClient(logger, url, cliCtx.String(flags.ExplorerKeyFlag.Name))
		checkList = append(checkList, checks.NewVerificationCheck(logger, verifier, cfg.L1ChainID))
	}

	reqs, err := prop.SimulationRequests(cfg.L1ChainID, cfg.Placeholder())
	if err != nil {
		return err
	}
	reports := make([]actionReport, 0, len(reqs))
	for i, req := range reqs {
		logger.Info("Simulating proposal action", "action", i, "target", req.To)
		source, err := backend.Simulate(ctx, req)
		if err != nil {
			return fmt.Errorf("source simulation of action %d failed: %w", i, err)
		}
		crossChain := orch.Run(ctx, source)
		input := &checks.Input{Targets: prop.Targets, Sim: source, CrossChain: crossChain}
		reports = append(reports, actionReport{
			Action:     i,
			Target:     req.To,
			Checks:     checks.RunAll(ctx, input, checkList...),
			CrossChain: crossChain,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

func newLogger(level string) log.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "trace", "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error", "crit":
		lvl = slog.LevelError
	}
	return log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, false))
}
