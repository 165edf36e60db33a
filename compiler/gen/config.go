package gen

import (
	"log/slog"
	"path"
	"path/filepath"
	"runtime"

	"github.com/syssam/aggregen/dialect"
)

// Config holds the global configuration for code generation.
type Config struct {
	// Target is the directory the generated files are written to.
	Target string
	// Package is the import path of the generated package,
	// e.g. "github.com/org/project/model".
	Package string
	// Header replaces the default header comment of generated files.
	Header string
	// Dialect is the database dialect generated statements target.
	Dialect string
	// MultiTenancy enables the company_id/company_code injection rules.
	MultiTenancy bool
	// Strict fails the run on any skipped relation instead of reporting
	// it as a warning.
	Strict bool
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Acronyms are extra words upper-cased as a whole in generated
	// identifiers, e.g. "erp" turns erp_code into ERPCode.
	Acronyms []string
	// Logger receives generation events. Defaults to slog.Default.
	Logger *slog.Logger
}

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by aggregen. DO NOT EDIT."

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	switch {
	case c.Package != "":
		return path.Base(c.Package)
	case c.Target != "":
		return filepath.Base(c.Target)
	default:
		return "model"
	}
}

// HeaderComment returns the header written at the top of generated files.
func (c *Config) HeaderComment() string {
	if c.Header != "" {
		return c.Header
	}
	return DefaultHeader
}

// DialectName returns the configured dialect, defaulting to MySQL.
func (c *Config) DialectName() string {
	if c.Dialect == "" {
		return dialect.MySQL
	}
	return c.Dialect
}

// WorkerCount returns the number of parallel rendering workers.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Naming returns the identifier naming of the configured acronyms.
func (c *Config) Naming() *Naming {
	return NewNaming(c.Acronyms...)
}

// Log returns the configured logger.
func (c *Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
