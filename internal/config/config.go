// Package config loads the TOML document that drives cmd/adqlctl: the
// target dialect, the UDF declarations to register, and the geometry and
// coordinate-system allow-lists the checker (§4.8) enforces. It follows
// the teacher's internal/parser/toml shape (a top-level schemaFile-like
// struct decoded with github.com/BurntSushi/toml, then converted into the
// package's own domain type by a small converter) but targets
// check.Config/dialect.Type instead of core.Database/core.Dialect.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"adqlcore/internal/check"
	"adqlcore/internal/dialect"
	"adqlcore/internal/udf"
)

// document is the top-level TOML document cmd/adqlctl reads.
type document struct {
	Catalog tomlCatalog `toml:"catalog"`
	Dialect tomlDialect `toml:"dialect"`
	UDFs    tomlUDFs    `toml:"udfs"`
	Allow   tomlAllow   `toml:"allow"`
}

// tomlCatalog maps [catalog]: where the VODataService tableset XML that
// seeds the metadata.Catalog lives (§4.6/C6).
type tomlCatalog struct {
	TablesetPath string `toml:"tableset_path"`
}

// tomlDialect maps [dialect]: the translation target (§4.9/§6).
type tomlDialect struct {
	Name string `toml:"name"`
}

// tomlUDFs maps [udfs]: one §6 declaration string per entry, e.g.
// `"myFunc(a DOUBLE, b DOUBLE) -> DOUBLE"` or the bracketed
// `"[myFunc(a DOUBLE) -> DOUBLE, {my.pkg.MyFunc}]"` form.
type tomlUDFs struct {
	Declarations []string `toml:"declarations"`
}

// tomlAllow maps [allow]: the geometry-function and coordinate-system
// allow-lists consulted by check.Config (§4.8).
type tomlAllow struct {
	Geometry []string `toml:"geometry"`
	Coosys   []string `toml:"coosys"`
}

// Config is the fully-resolved, ready-to-use configuration: a dialect
// constructor key, a populated udf.Registry, and a check.Config carrying
// the allow-lists, plus the tableset path the caller still has to open
// and feed to tableset.NewIngester.
type Config struct {
	Dialect      dialect.Type
	TablesetPath string
	Registry     *udf.Registry
	Check        check.Config
}

// Load reads and converts a TOML configuration document from path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a TOML configuration document from r.
func Parse(r io.Reader) (*Config, error) {
	var doc document
	if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}
	return newConverter(&doc).convert()
}

type converter struct {
	doc *document
}

func newConverter(doc *document) *converter {
	return &converter{doc: doc}
}

func (c *converter) convert() (*Config, error) {
	dt, err := c.dialectType()
	if err != nil {
		return nil, err
	}

	reg := udf.NewRegistry()
	for _, decl := range c.doc.UDFs.Declarations {
		defs, err := udf.ParseDeclarationList(decl)
		if err != nil {
			return nil, fmt.Errorf("config: udf declaration %q: %w", decl, err)
		}
		for _, def := range defs {
			reg.Register(def)
		}
	}

	return &Config{
		Dialect:      dt,
		TablesetPath: c.doc.Catalog.TablesetPath,
		Registry:     reg,
		Check: check.Config{
			Registry:          reg,
			UDFMode:           check.DeclaredOnly,
			GeometryAllowList: c.geometryAllowList(),
			CoosysAllowList:   c.doc.Allow.Coosys,
		},
	}, nil
}

// dialectType validates [dialect].name against the registered dialect
// names (§4.9/§6). Empty defaults to the generic dialect.
func (c *converter) dialectType() (dialect.Type, error) {
	name := c.doc.Dialect.Name
	if name == "" {
		return dialect.Generic, nil
	}
	dt := dialect.Type(name)
	switch dt {
	case dialect.Generic, dialect.PostgreSQL, dialect.PgSphere, dialect.MySQL, dialect.MSSQL:
		return dt, nil
	default:
		return "", fmt.Errorf("config: unsupported dialect %q", name)
	}
}

// geometryAllowList converts [allow].geometry into the map check.Config
// expects; an absent key (nil slice) leaves every geometry function
// allowed, matching check.Config's own "nil = all allowed" convention.
func (c *converter) geometryAllowList() map[string]bool {
	if c.doc.Allow.Geometry == nil {
		return nil
	}
	allow := make(map[string]bool, len(c.doc.Allow.Geometry))
	for _, name := range c.doc.Allow.Geometry {
		allow[name] = true
	}
	return allow
}
