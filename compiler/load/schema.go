package load

import (
	"context"
	"fmt"

	"github.com/syssam/aggregen/compiler/gen"
	"github.com/syssam/aggregen/dialect"
	"github.com/syssam/aggregen/dialect/sql"
)

// Schema loads the table descriptors of the configured source and applies
// the table overrides of the config. Inline tables win over a snapshot,
// which wins over a live database.
func Schema(ctx context.Context, cfg *Config) ([]*gen.Table, error) {
	tables, err := source(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func source(ctx context.Context, cfg *Config) ([]*gen.Table, error) {
	src := cfg.Schema
	switch {
	case len(src.Tables) > 0:
		return src.Tables, nil
	case src.Snapshot != "":
		s, err := ReadSnapshot(cfg.Path(src.Snapshot))
		if err != nil {
			return nil, err
		}
		return s.Tables, nil
	case src.DSN != "":
		return InspectDSN(ctx, cfg.DialectName(), src.DSN, InspectOptions{
			Schema:  src.Name,
			Tables:  src.Include,
			Exclude: src.Exclude,
		})
	default:
		return nil, gen.NewConfigError("schema", nil, "no schema source configured")
	}
}

// InspectDSN connects to the database and inspects it.
func InspectDSN(ctx context.Context, dialectName, dsn string, opts InspectOptions) ([]*gen.Table, error) {
	d, err := dialect.Normalize(dialectName)
	if err != nil {
		return nil, err
	}
	drv, err := sql.Open(d, dsn)
	if err != nil {
		return nil, fmt.Errorf("load: opening database: %w", err)
	}
	defer drv.Close()
	if err := drv.DB().PingContext(ctx); err != nil {
		return nil, fmt.Errorf("load: connecting to database: %w", err)
	}
	return Inspect(ctx, drv.DB(), d, opts)
}

// DialectName returns the configured dialect, defaulting to MySQL.
func (c *Config) DialectName() string {
	return (&gen.Config{Dialect: c.Dialect}).DialectName()
}
