package flags

import (
	"github.com/urfave/cli/v2"
)

const envVarPrefix = "SEATBELT"

func envVars(name string) []string {
	return []string{envVarPrefix + "_" + name}
}

var (
	ProposalFlag = &cli.StringFlag{
		Name:     "proposal",
		Usage:    "Path to the proposal JSON file to analyze",
		EnvVars:  envVars("PROPOSAL"),
		Required: true,
	}
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to a TOML config file, defaults apply when omitted",
		EnvVars: envVars("CONFIG"),
	}
	RPCURLFlag = &cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "L1 execution client RPC endpoint",
		EnvVars: envVars("RPC_URL"),
	}
	BackendURLFlag = &cli.StringFlag{
		Name:    "backend-url",
		Usage:   "Simulation backend base URL",
		EnvVars: envVars("BACKEND_URL"),
	}
	BackendKeyFlag = &cli.StringFlag{
		Name:    "backend-key",
		Usage:   "Simulation backend access key",
		EnvVars: envVars("BACKEND_KEY"),
	}
	ExplorerURLFlag = &cli.StringFlag{
		Name:    "explorer-url",
		Usage:   "Etherscan-compatible API base URL, verification check is skipped when empty",
		EnvVars: envVars("EXPLORER_URL"),
	}
	ExplorerKeyFlag = &cli.StringFlag{
		Name:    "explorer-key",
		Usage:   "Explorer API key",
		EnvVars: envVars("EXPLORER_KEY"),
	}
	LogLevelFlag = &cli.StringFlag{
		Name:    "log.level",
		Usage:   "Lowest log level that will be output",
		EnvVars: envVars("LOG_LEVEL"),
		Value:   "info",
	}
)

var Flags = []cli.Flag{
	ProposalFlag,
	ConfigFlag,
	RPCURLFlag,
	BackendURLFlag,
	BackendKeyFlag,
	ExplorerURLFlag,
	ExplorerKeyFlag,
	LogLevelFlag,
}
