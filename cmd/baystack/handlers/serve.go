package handlers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/api"
	"github.com/imamik/baystack/internal/conductor"
)

// serveAPI is replaced in tests.
var serveAPI = api.Serve

// Serve runs the conductor API until the process is interrupted. In-flight
// operations are allowed to finish before it returns.
func Serve(ctx context.Context, configPath string, flags *pflag.FlagSet, resume bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	logger := log.FromContext(ctx)

	h, err := a.lifecycle(ctx)
	if err != nil {
		return err
	}
	svc := conductor.NewService(ctx, h, a.repo)
	defer svc.Wait()

	if resume {
		n, err := svc.Resume(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("resumed interrupted operations", "count", n)
		}
	}

	e := api.New(svc, a.repo, logger.WithName("api"), api.WithMetrics(a.cfg.Metrics.Enabled))
	logger.Info("serving bay API", "listen", a.cfg.API.Listen)
	return serveAPI(ctx, e, a.cfg.API.Listen)
}
