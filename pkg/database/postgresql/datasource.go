package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"umroh-system/pkg/config"
	apperrors "umroh-system/pkg/errors"
)

// Module names a business schema. Unqualified table names in a query
// resolve against the module schema first, then the shared core schema.
type Module string

const (
	ModuleCore      Module = "core"
	ModuleJamaah    Module = "jamaah"
	ModulePayment   Module = "payment"
	ModuleFlight    Module = "flight"
	ModuleHotel     Module = "hotel"
	ModuleInventory Module = "inventory"
	ModuleReports   Module = "reports"
)

var searchPaths = map[Module]string{
	ModuleCore:      "SET search_path TO core, public",
	ModuleJamaah:    "SET search_path TO jamaah, core, public",
	ModulePayment:   "SET search_path TO payment, core, public",
	ModuleFlight:    "SET search_path TO flight, core, public",
	ModuleHotel:     "SET search_path TO hotel, core, public",
	ModuleInventory: "SET search_path TO inventory, core, public",
	// Reports read across every module schema.
	ModuleReports: "SET search_path TO reports, jamaah, payment, flight, hotel, inventory, core, public",
}

// Querier is the subset of pgx satisfied by both a pooled connection and a
// transaction, so repository code does not care which it runs on.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// DataSource routes queries to the right pool and schema. It is built once
// at startup and injected into repositories; there are no package-level
// pool singletons.
type DataSource struct {
	core     *pgxpool.Pool
	readonly *pgxpool.Pool
	logger   *zap.Logger
}

func NewDataSource(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*DataSource, error) {
	core, err := newPool(ctx, cfg.DSN, cfg.MaxConns, cfg)
	if err != nil {
		return nil, fmt.Errorf("core pool: %w", err)
	}

	readonly, err := newPool(ctx, cfg.ReadonlyDSN, cfg.ReadonlyMaxConns, cfg)
	if err != nil {
		core.Close()
		return nil, fmt.Errorf("readonly pool: %w", err)
	}

	ds := &DataSource{core: core, readonly: readonly, logger: logger}
	if err := ds.Ping(ctx); err != nil {
		ds.Close()
		return nil, err
	}
	return ds, nil
}

func newPool(ctx context.Context, dsn string, maxConns int32, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

func (ds *DataSource) Ping(ctx context.Context) error {
	if err := ds.core.Ping(ctx); err != nil {
		return fmt.Errorf("ping core pool: %w", err)
	}
	if err := ds.readonly.Ping(ctx); err != nil {
		return fmt.Errorf("ping readonly pool: %w", err)
	}
	return nil
}

// Close drains both pools. Call at shutdown, after the HTTP server stops.
func (ds *DataSource) Close() {
	ds.core.Close()
	ds.readonly.Close()
}

func searchPathFor(module Module) (string, error) {
	setPath, ok := searchPaths[module]
	if !ok {
		return "", apperrors.Newf(apperrors.KindInternal, "unknown database module %q", module)
	}
	return setPath, nil
}

func (ds *DataSource) withConn(ctx context.Context, pool *pgxpool.Pool, module Module, fn func(q Querier) error) error {
	setPath, err := searchPathFor(module)
	if err != nil {
		return err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for module %s: %w", module, err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, setPath); err != nil {
		return fmt.Errorf("set search_path for module %s: %w", module, err)
	}
	return fn(conn)
}

// Query runs fn on a connection from the write pool with the module's
// search path applied. The connection is released on every exit path.
func (ds *DataSource) Query(ctx context.Context, module Module, fn func(q Querier) error) error {
	return ds.withConn(ctx, ds.core, module, fn)
}

// ReadQuery is Query against the readonly pool.
func (ds *DataSource) ReadQuery(ctx context.Context, module Module, fn func(q Querier) error) error {
	return ds.withConn(ctx, ds.readonly, module, fn)
}

// ReportQuery runs fn with the widened cross-module search path on the
// readonly pool. Reports have no transactional counterpart.
func (ds *DataSource) ReportQuery(ctx context.Context, fn func(q Querier) error) error {
	return ds.withConn(ctx, ds.readonly, ModuleReports, fn)
}

// Transaction runs fn inside a single transaction on one connection from
// the write pool. It commits when fn returns nil, rolls back when fn
// returns an error or panics, and always releases the connection exactly
// once. Statements inside fn must go through the supplied pgx.Tx so they
// share the transaction.
func (ds *DataSource) Transaction(ctx context.Context, module Module, fn func(tx pgx.Tx) error) (err error) {
	if module == ModuleReports {
		return apperrors.New(apperrors.KindInternal, "reports module is read-only, transactions are not available")
	}

	setPath, err := searchPathFor(module)
	if err != nil {
		return err
	}

	conn, err := ds.core.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection for module %s: %w", module, err)
	}
	defer conn.Release()

	var tx pgx.Tx
	tx, err = conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
			if err != nil {
				err = fmt.Errorf("commit transaction: %w", err)
			}
		}
	}()

	if _, err = tx.Exec(ctx, setPath); err != nil {
		err = fmt.Errorf("set search_path for module %s: %w", module, err)
		return err
	}

	err = fn(tx)
	return err
}
