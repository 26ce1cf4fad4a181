package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/imamik/baystack/internal/bay"
)

// readFile is replaced in tests.
var readFile = os.ReadFile

// BayModelCreate stores the baymodel described by the YAML file at path.
func BayModelCreate(ctx context.Context, configPath string, flags *pflag.FlagSet, path string) error {
	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("failed to read baymodel file: %w", err)
	}
	t := new(bay.ClusterTemplate)
	if err := yaml.Unmarshal(data, t); err != nil {
		return fmt.Errorf("failed to parse baymodel file %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	if t.UUID == "" {
		t.UUID = uuid.NewString()
	}

	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.repo.CreateClusterTemplate(ctx, t); err != nil {
		return err
	}
	renderBayModel(out, t)
	return nil
}

// BayModelShow prints one baymodel.
func BayModelShow(ctx context.Context, configPath string, flags *pflag.FlagSet, id string) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	t, err := a.repo.GetClusterTemplate(ctx, id)
	if err != nil {
		return err
	}
	renderBayModel(out, t)
	return nil
}

// BayModelList prints all baymodels.
func BayModelList(ctx context.Context, configPath string, flags *pflag.FlagSet) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	list, err := a.repo.ListClusterTemplates(ctx)
	if err != nil {
		return err
	}
	renderBayModels(out, list)
	return nil
}

// BayModelDelete removes a baymodel that no bay references.
func BayModelDelete(ctx context.Context, configPath string, flags *pflag.FlagSet, id string) error {
	ctx, a, err := newApp(ctx, configPath, flags)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.repo.DeleteClusterTemplate(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "BayModel %s deleted\n", id)
	return nil
}
