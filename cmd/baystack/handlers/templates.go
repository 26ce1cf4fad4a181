package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/s3"
	"github.com/imamik/baystack/internal/templates"
)

// ObjectWriter uploads template documents.
type ObjectWriter interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
}

// newObjectWriter is replaced in tests.
var newObjectWriter = func(ctx context.Context, cfg config.S3Config) (ObjectWriter, error) {
	return s3.NewClient(ctx, s3.Options{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
}

// TemplatesList prints the documents available from the configured source.
func TemplatesList(ctx context.Context, configPath string, flags *pflag.FlagSet) error {
	cfg, err := loadConfig(configPath, flags)
	if err != nil {
		return err
	}
	ctx = setupLogger(ctx, cfg.Log.Development)

	src, err := newTemplateSource(ctx, cfg.Templates)
	if err != nil {
		return fmt.Errorf("failed to open template source: %w", err)
	}
	names, err := src.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Templates (%s)", sourceName(cfg.Templates))))
	for _, name := range names {
		fmt.Fprintln(out, "  "+name)
	}
	return nil
}

// TemplatesPush uploads every document under dir to the configured bucket.
// An empty dir pushes the built-in templates.
func TemplatesPush(ctx context.Context, configPath string, flags *pflag.FlagSet, dir string) error {
	cfg, err := loadConfig(configPath, flags)
	if err != nil {
		return err
	}
	ctx = setupLogger(ctx, cfg.Log.Development)
	if cfg.Templates.S3.Bucket == "" {
		return fmt.Errorf("templates.s3.bucket is required to push templates")
	}

	var src templates.Source = templates.Embedded()
	if dir != "" {
		src = templates.Dir(dir)
	}
	names, err := src.List(ctx)
	if err != nil {
		return err
	}

	w, err := newObjectWriter(ctx, cfg.Templates.S3)
	if err != nil {
		return err
	}
	logger := log.FromContext(ctx)
	for _, name := range names {
		data, err := src.ReadFile(ctx, name)
		if err != nil {
			return err
		}
		key := templates.S3Key(cfg.Templates.S3.Prefix, name)
		if err := w.PutObject(ctx, cfg.Templates.S3.Bucket, key, data); err != nil {
			return fmt.Errorf("failed to upload %s: %w", name, err)
		}
		logger.V(1).Info("uploaded template", "key", key, "bytes", len(data))
		fmt.Fprintf(out, "%s s3://%s/%s\n", okStyle.Render("✓"), cfg.Templates.S3.Bucket, key)
	}
	return nil
}

func sourceName(cfg config.TemplatesConfig) string {
	switch cfg.Source {
	case config.TemplateSourceDir:
		return cfg.Dir
	case config.TemplateSourceS3:
		return "s3://" + templates.S3Key(cfg.S3.Bucket, cfg.S3.Prefix)
	case "":
		return config.TemplateSourceEmbedded
	default:
		return cfg.Source
	}
}
