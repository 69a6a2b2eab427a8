package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/yndnr/corex-go/internal/core/domain"
	"github.com/yndnr/corex-go/internal/core/service"
	"github.com/yndnr/corex-go/internal/infra/buildinfo"
	"github.com/yndnr/corex-go/internal/infra/confloader"
	"github.com/yndnr/corex-go/internal/infra/shutdown"
	"github.com/yndnr/corex-go/internal/server/config"
	"github.com/yndnr/corex-go/internal/server/httpserver"
	"github.com/yndnr/corex-go/internal/storage"
	"github.com/yndnr/corex-go/internal/telemetry/logger"
	"github.com/yndnr/corex-go/internal/telemetry/metric"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the command line flags.
type options struct {
	configFile  string
	dataDir     string
	addr        string
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("corex-server", flag.ContinueOnError)
	fs.StringVar(&opts.configFile, "config", "", "Path to configuration file")
	fs.StringVar(&opts.dataDir, "data-dir", "", "Override storage.data_dir")
	fs.StringVar(&opts.addr, "addr", "", "Override server.http.address")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "corex-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	info := buildinfo.Get()
	log.Info("starting corex-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	var metrics *metric.Registry
	if cfg.Telemetry.Metrics.Enabled {
		metrics = metric.NewRegistry()
	}

	cipher, err := cfg.Cipher()
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}
	store, err := storage.New(cfg.StorageConfig(cipher, log, metrics))
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	ctx := context.Background()
	recovery := store.Recover(ctx)

	svc := service.NewLedgerService(store, cfg.ServiceConfig(log, metrics))
	if err := applyGenesis(ctx, cfg, recovery, svc, log); err != nil {
		store.Close()
		return err
	}
	if err := metrics.WatchLedger(func() metric.LedgerStats {
		return svc.Stats(context.Background())
	}); err != nil {
		store.Close()
		return fmt.Errorf("register ledger metrics: %w", err)
	}

	var stopping atomic.Bool
	routerCfg := newRouterConfig(cfg, svc, log, metrics)
	routerCfg.Ready = func(context.Context) error {
		if stopping.Load() {
			return domain.ErrServiceUnavailable.WithDetails("shutting down")
		}
		return nil
	}

	srv := httpserver.New(httpserver.Config{
		Address:      cfg.Server.HTTP.Address,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		Logger:       log,
	}, httpserver.NewRouter(routerCfg))

	sd := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout).WithLogger(log)

	// Hooks run in reverse order of registration.
	sd.OnShutdown("storage", func(context.Context) error {
		return store.Close()
	})
	sd.OnShutdown("checkpoint", store.Checkpoint)
	sd.OnShutdown("http", srv.Shutdown)

	if err := srv.Start(); err != nil {
		store.Close()
		return fmt.Errorf("start http server: %w", err)
	}
	log.Info("HTTP server listening", "addr", srv.Addr())

	if opts.configFile != "" {
		watcher, err := watchConfig(opts, log)
		if err != nil {
			log.Warn("config watcher disabled", "path", opts.configFile, "error", err)
		} else {
			sd.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}
	sd.OnShutdown("readiness", func(context.Context) error {
		stopping.Store(true)
		return nil
	})

	go func() {
		select {
		case err := <-srv.Errors():
			log.Error("HTTP server error", "error", err)
			sd.Trigger()
		case <-sd.Done():
		}
	}()

	if err := sd.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads defaults, the optional file, COREX_* environment
// variables and flag overrides, in that order.
func loadConfig(opts *options) (*config.ServerConfig, error) {
	cfg := config.Default()

	overrides := make(map[string]any)
	if opts.dataDir != "" {
		overrides["storage.data_dir"] = opts.dataDir
	}
	if opts.addr != "" {
		overrides["server.http.address"] = opts.addr
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(opts.configFile),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	lc := cfg.LoggerConfig()
	lc.Output = os.Stdout

	l, err := logger.New(lc)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(l)
	return l.Slog(), nil
}

// applyGenesis seeds an empty store. Restored and fallback states are left
// untouched.
func applyGenesis(ctx context.Context, cfg *config.ServerConfig, recovery *storage.RecoveryInfo, svc *service.LedgerService, log *slog.Logger) error {
	if recovery.Outcome != storage.OutcomeEmpty {
		log.Info("skipping genesis", "recovery", recovery.Outcome)
		return nil
	}

	g, ok, err := cfg.Genesis()
	if err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	if !ok {
		log.Warn("no minting authority configured, starting without one",
			"strict_authority", cfg.Ledger.StrictAuthority)
		return nil
	}

	applied, err := svc.Initialize(ctx, g)
	if err != nil {
		return fmt.Errorf("genesis: %w", err)
	}
	if applied {
		log.Info("genesis applied",
			"authority", g.Authority.String(),
			"initial_supply", g.InitialSupply.String(),
			"airdrop_milestone", g.AirdropMilestone)
	}
	return nil
}

func newRouterConfig(cfg *config.ServerConfig, svc *service.LedgerService, log *slog.Logger, metrics *metric.Registry) *httpserver.RouterConfig {
	rc := httpserver.DefaultRouterConfig()
	rc.Ledger = svc
	rc.Logger = log
	rc.Metrics = metrics
	rc.MetricsPath = cfg.Telemetry.Metrics.Path
	rc.CallerHeader = cfg.Server.HTTP.CallerHeader

	if rl := cfg.Server.RateLimit; rl.Enabled {
		if rl.RequestsPerSecond > 0 {
			rc.RequestLimiter = httpserver.NewLimiter(rate.Limit(rl.RequestsPerSecond), rl.Burst)
		}
		if rl.FaucetPerMinute > 0 {
			rc.FaucetLimiter = httpserver.NewPerMinuteLimiter(rl.FaucetPerMinute)
		}
	}
	return rc
}

// watchConfig reloads the log level when the config file changes.
func watchConfig(opts *options, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(opts.configFile, confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}

	w.OnChange(func(path string) {
		cfg, err := loadConfig(opts)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		prev := logger.GetLevel()
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("log level not applied", "level", cfg.Log.Level, "error", err)
			return
		}
		if now := logger.GetLevel(); now != prev {
			log.Info("log level reloaded", "from", prev, "to", now)
		}
	})
	w.Start()
	return w, nil
}
