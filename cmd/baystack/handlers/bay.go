package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/conductor"
	"github.com/imamik/baystack/internal/util/async"
)

// BayCreateOptions holds the flags of bay create.
type BayCreateOptions struct {
	Name         string
	BayModelID   string
	NodeCount    int
	DiscoveryURL string

	// Timeout in minutes. Negative uses the configured default, zero
	// disables the stack timeout.
	Timeout int
}

// BayCreate creates a bay and waits until its stack settles.
func BayCreate(ctx context.Context, configPath string, flags *pflag.FlagSet, opts BayCreateOptions) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	h, err := a.lifecycle(ctx)
	if err != nil {
		return err
	}
	svc := conductor.NewService(ctx, h, a.repo)

	b := &bay.Bay{
		Name:         opts.Name,
		BayModelID:   opts.BayModelID,
		DiscoveryURL: opts.DiscoveryURL,
	}
	if opts.NodeCount > 0 {
		b.NodeCount = &opts.NodeCount
	}
	var timeout *int
	if opts.Timeout >= 0 {
		timeout = &opts.Timeout
	}

	created, done, err := svc.CreateBay(ctx, b, timeout)
	if err != nil {
		return err
	}
	log.FromContext(ctx).Info("creating bay", "bay", created.UUID, "name", created.Name)
	if err := <-done; err != nil {
		return err
	}
	return showBay(ctx, a, created.UUID)
}

// BayShow prints one bay.
func BayShow(ctx context.Context, configPath string, flags *pflag.FlagSet, id string) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()
	return showBay(ctx, a, id)
}

// BayList prints all bays.
func BayList(ctx context.Context, configPath string, flags *pflag.FlagSet) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	bays, err := a.repo.ListBays(ctx)
	if err != nil {
		return err
	}
	renderBays(out, bays)
	return nil
}

// BayScale changes the node count of a bay and waits for the update.
func BayScale(ctx context.Context, configPath string, flags *pflag.FlagSet, id string, count int) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	h, err := a.lifecycle(ctx)
	if err != nil {
		return err
	}
	b, err := h.UpdateNodeCount(ctx, id, count)
	if err != nil {
		return err
	}
	renderBay(out, b)
	return nil
}

// BayDelete deletes the given bays in parallel and waits for all of them.
func BayDelete(ctx context.Context, configPath string, flags *pflag.FlagSet, ids []string) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	h, err := a.lifecycle(ctx)
	if err != nil {
		return err
	}

	tasks := make([]async.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, async.Task{
			Name: "bay " + id,
			Func: func(ctx context.Context) error {
				if err := h.Delete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Bay %s deleted\n", id)
				return nil
			},
		})
	}
	return async.RunParallel(ctx, tasks)
}

func showBay(ctx context.Context, a *app, id string) error {
	b, err := a.repo.GetBay(ctx, id)
	if err != nil {
		return err
	}
	renderBay(out, b)
	return nil
}
