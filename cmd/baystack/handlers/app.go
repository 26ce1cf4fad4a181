package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/imamik/baystack/internal/conductor"
	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/discovery"
	"github.com/imamik/baystack/internal/platform/heat"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/store/memory"
	"github.com/imamik/baystack/internal/store/postgres"
	"github.com/imamik/baystack/internal/templates"
)

// flagKeys maps CLI flags onto configuration keys.
var flagKeys = map[string]string{
	"listen":           "api.listen",
	"database-driver":  "database.driver",
	"database-url":     "database.url",
	"templates-source": "templates.source",
	"templates-dir":    "templates.dir",
	"log-development":  "log.development",
}

// Factory function variables - can be replaced in tests.
var (
	// loadConfig reads the config file, the environment and bound flags.
	loadConfig = func(path string, flags *pflag.FlagSet) (*config.Config, error) {
		v := config.NewViper()
		if flags != nil {
			for name, key := range flagKeys {
				if f := flags.Lookup(name); f != nil {
					if err := v.BindPFlag(key, f); err != nil {
						return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
					}
				}
			}
		}
		if err := config.ReadFile(v, path); err != nil {
			return nil, err
		}
		return config.Decode(v)
	}

	// openRepository connects the configured database.
	openRepository = func(ctx context.Context, cfg config.DatabaseConfig) (store.Repository, func(), error) {
		switch cfg.Driver {
		case config.DatabasePostgres:
			s, err := postgres.Connect(ctx, cfg.URL, cfg.MaxConns)
			if err != nil {
				return nil, nil, err
			}
			return s, s.Close, nil
		default:
			return memory.New(), func() {}, nil
		}
	}

	// newOrchestrator authenticates against Keystone and returns a Heat client.
	newOrchestrator = func(ctx context.Context, cfg *config.Config) (heat.Orchestrator, error) {
		var opts []heat.ClientOption
		if cfg.Metrics.Enabled {
			opts = append(opts, heat.WithCallObserver(conductor.HeatCallObserver()))
		}
		return heat.NewRealClient(ctx, cfg.Heat.Region, opts...)
	}

	newTemplateSource = templates.NewSource

	newDiscoveryClient = func() discovery.Client {
		return discovery.NewHTTPClient()
	}

	// out receives rendered command output.
	out io.Writer = os.Stdout
)

// app holds what a command needs after configuration is loaded.
type app struct {
	cfg   *config.Config
	repo  store.Repository
	close func()
}

// newApp loads configuration, sets up logging and opens the repository.
// The returned context carries the logger.
func newApp(ctx context.Context, configPath string, flags *pflag.FlagSet) (context.Context, *app, error) {
	cfg, err := loadConfig(configPath, flags)
	if err != nil {
		return ctx, nil, err
	}
	ctx = setupLogger(ctx, cfg.Log.Development)

	repo, closeFn, err := openRepository(ctx, cfg.Database)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to open %s repository: %w", cfg.Database.Driver, err)
	}
	return ctx, &app{cfg: cfg, repo: repo, close: closeFn}, nil
}

// lifecycle wires the conductor handler. It is built on demand so commands
// that only touch the repository do not need OpenStack credentials.
func (a *app) lifecycle(ctx context.Context) (*conductor.Handler, error) {
	orch, err := newOrchestrator(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	src, err := newTemplateSource(ctx, a.cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("failed to open template source: %w", err)
	}
	return conductor.NewHandler(a.cfg, a.repo, orch, templates.NewLoader(src), newDiscoveryClient(),
		conductor.WithMetrics(a.cfg.Metrics.Enabled)), nil
}

// setupLogger installs the process logger. Development output is used on
// a terminal or when requested.
func setupLogger(ctx context.Context, development bool) context.Context {
	dev := development || isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.SetLogger(zap.New(zap.UseDevMode(dev), zap.WriteTo(os.Stderr)))
	return log.IntoContext(ctx, log.Log.WithName("baystack"))
}
