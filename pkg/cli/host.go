package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/internal/storage"
	"github.com/getmockd/routestore/pkg/config"
	"github.com/getmockd/routestore/pkg/dispatch"
	"github.com/getmockd/routestore/pkg/logging"
	"github.com/getmockd/routestore/pkg/registry"
)

// host owns everything a command needs: configuration, logger, the registry
// over the configured backend, and the dispatch table exposing it.
type host struct {
	cfg     *config.Config
	log     *slog.Logger
	reg     *registry.Registry
	table   *dispatch.Table
	logFile *os.File
}

// loadConfig reads the config file, then applies env and flag overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(&flagConfig); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openHost(ctx context.Context) (*host, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logFile, err := cfg.Logging.OpenFile()
	if err != nil {
		return nil, err
	}
	var logger *slog.Logger
	if logFile != nil {
		logger = logging.Tee(cfg.Logging.LoggerConfig(os.Stderr), logFile, cfg.Logging.FileLoggerLevel())
	} else {
		logger = logging.New(cfg.Logging.LoggerConfig(os.Stderr))
	}

	storeCfg, err := cfg.Store.StoreConfig()
	if err != nil {
		closeFile(logFile)
		return nil, err
	}
	backend, err := storage.Open(ctx, storeCfg, logger)
	if err != nil {
		closeFile(logFile)
		return nil, fmt.Errorf("open %s backend: %w", storeCfg.Backend, err)
	}

	reg := registry.New(backend, logger)
	table := dispatch.NewTable(logger)
	if err := dispatch.RegisterRoutes(table, reg); err != nil {
		_ = reg.Close()
		closeFile(logFile)
		return nil, err
	}

	logger.Debug("route store opened", "backend", storeCfg.Backend, "config", cfg.Path())
	return &host{cfg: cfg, log: logger, reg: reg, table: table, logFile: logFile}, nil
}

func (h *host) Close() error {
	err := h.reg.Close()
	closeFile(h.logFile)
	return err
}

// call invokes a registered operation with args marshaled to JSON and, when
// out is non-nil, decodes the result into it.
func (h *host) call(ctx context.Context, op string, args any, out any) error {
	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode %s arguments: %w", op, err)
		}
		raw = data
	}

	result, err := h.table.Call(ctx, op, raw)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(result, out)
}

// withHost adapts a command body that needs a host into a cobra RunE.
func withHost(run func(cmd *cobra.Command, args []string, h *host) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		h, err := openHost(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := h.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		return run(cmd, args, h)
	}
}

func closeFile(f *os.File) {
	if f != nil {
		_ = f.Close()
	}
}
