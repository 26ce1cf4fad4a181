package templates

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/imamik/baystack/internal/config"
	"github.com/imamik/baystack/internal/platform/s3"
)

//go:embed hot
var hotFS embed.FS

// ErrNotFound is returned when a template or referenced file is missing.
var ErrNotFound = errors.New("template not found")

// Source reads template documents by slash-separated relative name.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// FSSource serves templates from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// Embedded returns the templates compiled into the binary.
func Embedded() *FSSource {
	sub, err := fs.Sub(hotFS, "hot")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return &FSSource{fsys: sub}
}

// Dir returns a source reading from a local directory.
func Dir(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir)}
}

// NewFSSource wraps an arbitrary filesystem.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read template %s: %w", name, err)
	}
	return data, nil
}

// List returns every file in the source, sorted.
func (s *FSSource) List(_ context.Context) ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return names, nil
}

// ObjectStore is the subset of the S3 client used by S3Source.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
}

// S3Source serves templates from bucket/prefix.
type S3Source struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewS3Source returns a source reading objects under prefix in bucket.
func NewS3Source(store ObjectStore, bucket, prefix string) *S3Source {
	return &S3Source{store: store, bucket: bucket, prefix: S3Key(prefix, "")}
}

// S3Key returns the object key of template name under prefix.
func S3Key(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

func (s *S3Source) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := s.store.GetObject(ctx, s.bucket, s.prefix+name)
	if err != nil {
		if s3.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
		}
		return nil, err
	}
	return data, nil
}

// List returns the names of every object under the prefix, relative to it.
func (s *S3Source) List(ctx context.Context) ([]string, error) {
	keys, err := s.store.ListObjects(ctx, s.bucket, s.prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, s.prefix)
		if name == "" || strings.HasSuffix(name, "/") {
			continue
		}
		names = append(names, path.Clean(name))
	}
	return names, nil
}

// NewSource builds the source selected by cfg.
func NewSource(ctx context.Context, cfg config.TemplatesConfig) (Source, error) {
	switch cfg.Source {
	case config.TemplateSourceEmbedded, "":
		return Embedded(), nil
	case config.TemplateSourceDir:
		return Dir(cfg.Dir), nil
	case config.TemplateSourceS3:
		client, err := s3.NewClient(ctx, s3.Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown template source %q", cfg.Source)
	}
}
