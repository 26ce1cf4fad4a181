// Package postgres implements store.Repository on PostgreSQL using pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/baystack/internal/bay"
	"github.com/imamik/baystack/internal/store"
	"github.com/imamik/baystack/internal/util/retry"
)

//go:embed schema.sql
var schema string

// Store is a PostgreSQL-backed repository.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Repository = (*Store)(nil)

// Connect opens a pool for url, retrying while the server comes up, and
// applies the schema.
func Connect(ctx context.Context, url string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	logger := log.FromContext(ctx)
	var pool *pgxpool.Pool
	err = retry.Do(ctx, func(ctx context.Context) error {
		p, err := pgxpool.ConnectConfig(ctx, cfg)
		if err != nil {
			logger.V(1).Info("database not reachable yet", "error", err.Error())
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}, retry.WithMaxRetries(5), retry.WithInitialDelay(time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The schema is not applied.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) CreateClusterTemplate(ctx context.Context, t *bay.ClusterTemplate) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		insert into "baymodels" (
			"uuid", "name", "image_id", "flavor_id", "master_flavor_id", "keypair_id",
			"dns_nameserver", "external_network_id", "fixed_network", "docker_volume_size",
			"cluster_distro", "ssh_authorized_key", "coe", "apiserver_port", "created_at"
		) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.UUID, t.Name, t.ImageID, t.FlavorID, t.MasterFlavorID, t.KeypairID,
		t.DNSNameserver, t.ExternalNetworkID, t.FixedNetwork, int4(t.DockerVolumeSize),
		t.ClusterDistro, t.SSHAuthorizedKey, string(t.COE), int4(t.APIServerPort), t.CreatedAt,
	)
	return classify(err, "baymodel", t.UUID)
}

const templateColumns = `
	"uuid", "name", "image_id", "flavor_id", "master_flavor_id", "keypair_id",
	"dns_nameserver", "external_network_id", "fixed_network", "docker_volume_size",
	"cluster_distro", "ssh_authorized_key", "coe", "apiserver_port", "created_at"`

func scanTemplate(row pgx.Row) (*bay.ClusterTemplate, error) {
	var (
		t                   bay.ClusterTemplate
		coe                 string
		volumeSize, apiPort pgtype.Int4
	)
	err := row.Scan(
		&t.UUID, &t.Name, &t.ImageID, &t.FlavorID, &t.MasterFlavorID, &t.KeypairID,
		&t.DNSNameserver, &t.ExternalNetworkID, &t.FixedNetwork, &volumeSize,
		&t.ClusterDistro, &t.SSHAuthorizedKey, &coe, &apiPort, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.COE = bay.COE(coe)
	t.DockerVolumeSize = intPtr(volumeSize)
	t.APIServerPort = intPtr(apiPort)
	return &t, nil
}

func (s *Store) GetClusterTemplate(ctx context.Context, uuid string) (*bay.ClusterTemplate, error) {
	row := s.pool.QueryRow(ctx, `select `+templateColumns+` from "baymodels" where "uuid" = $1`, uuid)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, classify(err, "baymodel", uuid)
	}
	return t, nil
}

func (s *Store) ListClusterTemplates(ctx context.Context) ([]*bay.ClusterTemplate, error) {
	rows, err := s.pool.Query(ctx, `select `+templateColumns+` from "baymodels" order by "created_at", "uuid"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list baymodels: %w", err)
	}
	defer rows.Close()

	var out []*bay.ClusterTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan baymodel: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteClusterTemplate(ctx context.Context, uuid string) error {
	tag, err := s.pool.Exec(ctx, `delete from "baymodels" where "uuid" = $1`, uuid)
	if err != nil {
		return classify(err, "baymodel", uuid)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: baymodel %s", bay.ErrNotFound, uuid)
	}
	return nil
}

const bayColumns = `
	"uuid", "name", "baymodel_id", "stack_id", "node_count", "status", "status_reason",
	"api_address", "node_addresses", "discovery_url", "created_at", "updated_at"`

func scanBay(row pgx.Row) (*bay.Bay, error) {
	var (
		b         bay.Bay
		status    string
		nodeCount pgtype.Int4
	)
	err := row.Scan(
		&b.UUID, &b.Name, &b.BayModelID, &b.StackID, &nodeCount, &status, &b.StatusReason,
		&b.APIAddress, &b.NodeAddresses, &b.DiscoveryURL, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = bay.Status(status)
	b.NodeCount = intPtr(nodeCount)
	if len(b.NodeAddresses) == 0 {
		b.NodeAddresses = nil
	}
	return &b, nil
}

func (s *Store) CreateBay(ctx context.Context, b *bay.Bay) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := s.pool.Exec(ctx, `
		insert into "bays" (`+bayColumns+`)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.UUID, b.Name, b.BayModelID, b.StackID, int4(b.NodeCount), string(b.Status), b.StatusReason,
		b.APIAddress, addresses(b.NodeAddresses), b.DiscoveryURL, b.CreatedAt, b.UpdatedAt,
	)
	return classify(err, "bay", b.UUID)
}

func (s *Store) GetBay(ctx context.Context, uuid string) (*bay.Bay, error) {
	row := s.pool.QueryRow(ctx, `select `+bayColumns+` from "bays" where "uuid" = $1`, uuid)
	b, err := scanBay(row)
	if err != nil {
		return nil, classify(err, "bay", uuid)
	}
	return b, nil
}

func (s *Store) ListBays(ctx context.Context) ([]*bay.Bay, error) {
	rows, err := s.pool.Query(ctx, `select `+bayColumns+` from "bays" order by "created_at", "uuid"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bays: %w", err)
	}
	defer rows.Close()

	var out []*bay.Bay
	for rows.Next() {
		b, err := scanBay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bay: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) SaveBay(ctx context.Context, b *bay.Bay) error {
	updated := time.Now().UTC()
	tag, err := s.pool.Exec(ctx, `
		update "bays" set
			"name" = $2, "stack_id" = $3, "node_count" = $4, "status" = $5,
			"status_reason" = $6, "api_address" = $7, "node_addresses" = $8,
			"discovery_url" = $9, "updated_at" = $10
		where "uuid" = $1`,
		b.UUID, b.Name, b.StackID, int4(b.NodeCount), string(b.Status),
		b.StatusReason, b.APIAddress, addresses(b.NodeAddresses),
		b.DiscoveryURL, updated,
	)
	if err != nil {
		return classify(err, "bay", b.UUID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bay %s", bay.ErrNotFound, b.UUID)
	}
	b.UpdatedAt = updated
	return nil
}

func (s *Store) DestroyBay(ctx context.Context, uuid string) error {
	tag, err := s.pool.Exec(ctx, `delete from "bays" where "uuid" = $1`, uuid)
	if err != nil {
		return classify(err, "bay", uuid)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: bay %s", bay.ErrNotFound, uuid)
	}
	return nil
}

// classify maps driver errors onto the domain sentinels.
func classify(err error, kind, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", bay.ErrNotFound, kind, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s %s already exists", bay.ErrConflict, kind, id)
		case pgerrcode.ForeignKeyViolation:
			if kind == "baymodel" {
				return fmt.Errorf("%w: baymodel %s is referenced by a bay", bay.ErrConflict, id)
			}
			return fmt.Errorf("%w: baymodel for %s %s", bay.ErrNotFound, kind, id)
		}
	}
	return fmt.Errorf("failed to access %s %s: %w", kind, id, err)
}

func int4(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{Status: pgtype.Null}
	}
	return pgtype.Int4{Int: int32(*v), Status: pgtype.Present}
}

func intPtr(v pgtype.Int4) *int {
	if v.Status != pgtype.Present {
		return nil
	}
	n := int(v.Int)
	return &n
}

func addresses(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
