package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"aliaspay/config"
	"aliaspay/core"
	"aliaspay/observability/logging"
	"aliaspay/rpc"
	"aliaspay/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	env := strings.TrimSpace(os.Getenv("ALIASPAY_ENV"))
	if env == "" {
		env = cfg.LogEnvironment
	}
	logger := logging.Setup("aliaspayd", env)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	node := core.NewNode(db)
	if cfg.Genesis.CallbackCredential != "" {
		node.SetCallbackCredential(cfg.Genesis.CallbackCredential)
	}

	initialized, err := node.Initialized()
	if err != nil {
		logger.Error("Failed to inspect state", slog.Any("error", err))
		os.Exit(1)
	}
	if !initialized {
		if !cfg.Genesis.Complete() {
			logger.Error("Empty database and incomplete [Genesis] section; fill in the config before first start")
			os.Exit(1)
		}
		params, err := cfg.Genesis.InitParams()
		if err != nil {
			logger.Error("Invalid genesis parameters", slog.Any("error", err))
			os.Exit(1)
		}
		resp, err := node.Initialize(params)
		if err != nil {
			logger.Error("Failed to initialize router", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Router initialized",
			slog.String("admin", params.Admin),
			slog.String("token", params.TokenAddr),
			slog.Int("instructions", len(resp.Instructions)))
	}

	server := rpc.NewServer(node, logging.Component(logger, "rpc"))
	logger.Info("Starting node", slog.String("rpc", cfg.RPCAddress), slog.String("data", cfg.DataDir))
	if err := server.Start(cfg.RPCAddress); err != nil {
		logger.Error("RPC server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
