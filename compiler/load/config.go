package load

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/syssam/aggregen/compiler/gen"
)

// Config is the declarative generator configuration, usually read from
// an aggregen.yaml file.
type Config struct {
	// Dialect is the database dialect of the schema and generated code.
	Dialect string `yaml:"dialect"`
	// Package is the import path of the generated package.
	Package string `yaml:"package"`
	// Target is the output directory, relative to the config file.
	Target string `yaml:"target"`
	// Header replaces the header comment of generated files.
	Header string `yaml:"header,omitempty"`
	// MultiTenancy enables the company_id/company_code injections.
	MultiTenancy bool `yaml:"multi_tenancy,omitempty"`
	// Strict fails the run on any skipped relation.
	Strict bool `yaml:"strict,omitempty"`
	// Workers bounds the number of files rendered in parallel.
	Workers int `yaml:"workers,omitempty"`
	// Acronyms are extra words upper-cased in generated identifiers.
	Acronyms []string `yaml:"acronyms,omitempty"`
	// Schema selects where table descriptors are read from.
	Schema Source `yaml:"schema"`
	// Tables overrides the naming, keys and tree settings of tables.
	Tables map[string]TableOverride `yaml:"tables,omitempty"`
	// Aggregates declares the generated aggregates.
	Aggregates []Aggregate `yaml:"aggregates"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// Source describes the schema source. Inline tables take precedence over
// a snapshot file, which takes precedence over a live database.
type Source struct {
	// DSN is the data source name of the database to inspect.
	DSN string `yaml:"dsn,omitempty"`
	// Name is the database schema to inspect. Empty means the connected one.
	Name string `yaml:"name,omitempty"`
	// Include limits inspection to the given tables.
	Include []string `yaml:"include,omitempty"`
	// Exclude holds glob patterns of tables left out of inspection.
	Exclude []string `yaml:"exclude,omitempty"`
	// Snapshot is a msgpack schema snapshot written by "aggregen snapshot".
	Snapshot string `yaml:"snapshot,omitempty"`
	// Tables declares the schema inline.
	Tables []*gen.Table `yaml:"tables,omitempty"`
}

// TableOverride adjusts a table of the loaded schema.
type TableOverride struct {
	TypeName    string          `yaml:"type_name,omitempty"`
	Handler     string          `yaml:"handler,omitempty"`
	PrimaryKeys []string        `yaml:"primary_keys,omitempty"`
	Tree        *gen.TreeConfig `yaml:"tree,omitempty"`
}

// Aggregate is the declarative form of a gen.RelationSpec. The generate
// flags default to true.
type Aggregate struct {
	MajorTable      string `yaml:"major_table"`
	Name            string `yaml:"aggregate,omitempty"`
	ExtendMajor     bool   `yaml:"extend_major,omitempty"`
	AttachmentField string `yaml:"attachment_field,omitempty"`
	GenerateSelect  *bool  `yaml:"generate_select,omitempty"`
	GenerateSave    *bool  `yaml:"generate_save,omitempty"`
	GenerateDelete  *bool  `yaml:"generate_delete,omitempty"`
	// DeletedByRelation switches save reconciliation to tombstones: only
	// children listed in the *_deleted collections are deleted. When false,
	// stored children missing from the aggregate are deleted.
	DeletedByRelation bool            `yaml:"deleted_by_relation,omitempty"`
	OneToOne          []gen.OneToOne  `yaml:"one_to_one,omitempty"`
	OneToMany         []gen.OneToMany `yaml:"one_to_many,omitempty"`
}

// LoadConfig reads the config file at path. Environment references such
// as ${DATABASE_URL} are expanded before parsing.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// ParseConfig parses and validates a YAML config. Unknown keys are
// rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(expandEnv(data)))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envRef matches the ${VAR} references substituted from the environment.
// Other $ text, such as $5 or $word, is kept as written.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(m []byte) []byte {
		return []byte(os.Getenv(string(m[2 : len(m)-1])))
	})
}

func (c *Config) validate() error {
	var errs []error
	if c.Target == "" {
		errs = append(errs, gen.NewConfigError("target", nil, "missing output directory"))
	}
	if c.Schema.DSN == "" && c.Schema.Snapshot == "" && len(c.Schema.Tables) == 0 {
		errs = append(errs, gen.NewConfigError("schema", nil, "one of dsn, snapshot or tables is required"))
	}
	for i, a := range c.Aggregates {
		if a.MajorTable == "" {
			errs = append(errs, gen.NewConfigError(fmt.Sprintf("aggregates[%d].major_table", i), nil, "missing major table"))
		}
	}
	return errors.Join(errs...)
}

// Path resolves p against the directory of the config file.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Options returns the generator options of the config.
func (c *Config) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithTarget(c.Path(c.Target)),
		gen.WithHeader(c.Header),
		gen.WithMultiTenancy(c.MultiTenancy),
		gen.WithStrict(c.Strict),
		gen.WithWorkers(c.Workers),
		gen.WithAcronyms(c.Acronyms...),
	}
	if c.Dialect != "" {
		opts = append(opts, gen.WithDialect(c.Dialect))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	return opts
}

// Specs returns the relation specs of the declared aggregates.
func (c *Config) Specs() []*gen.RelationSpec {
	specs := make([]*gen.RelationSpec, len(c.Aggregates))
	for i, a := range c.Aggregates {
		specs[i] = &gen.RelationSpec{
			MajorTable:        a.MajorTable,
			Aggregate:         a.Name,
			ExtendMajor:       a.ExtendMajor,
			AttachmentField:   a.AttachmentField,
			GenerateSelect:    enabled(a.GenerateSelect),
			GenerateSave:      enabled(a.GenerateSave),
			GenerateDelete:    enabled(a.GenerateDelete),
			DeletedByRelation: a.DeletedByRelation,
			OneToOne:          a.OneToOne,
			OneToMany:         a.OneToMany,
		}
	}
	return specs
}

func enabled(b *bool) bool {
	return b == nil || *b
}

// Override applies the table overrides of the config. Overrides naming an
// unknown table are an error.
func (c *Config) Override(tables []*gen.Table) error {
	byName := make(map[string]*gen.Table, len(tables))
	for _, t := range tables {
		byName[t.Name] = t
	}
	for name, o := range c.Tables {
		t, ok := byName[name]
		if !ok {
			return gen.NewConfigError("tables", name, "override of unknown table")
		}
		if o.TypeName != "" {
			t.TypeName = o.TypeName
		}
		if o.Handler != "" {
			t.Handler = o.Handler
		}
		if len(o.PrimaryKeys) > 0 {
			t.PrimaryKeys = o.PrimaryKeys
		}
		if o.Tree != nil {
			t.Tree = o.Tree
		}
	}
	return nil
}
