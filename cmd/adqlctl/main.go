// Package main implements adqlctl, the CLI front-end over the parser,
// checker, and translator (C1-C9). It uses cobra for command dispatch,
// exactly as the teacher's cmd/smf/main.go does: a RunE closure per
// subcommand returning a plain error, printed via fmt.Print/os.Stdout
// directly rather than through a logging framework (SPEC_FULL.md's
// ambient "Logging" section).
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"adqlcore/internal/ast"
	"adqlcore/internal/check"
	"adqlcore/internal/config"
	"adqlcore/internal/dialect"
	_ "adqlcore/internal/dialect/generic"
	_ "adqlcore/internal/dialect/mssql"
	_ "adqlcore/internal/dialect/mysql"
	_ "adqlcore/internal/dialect/pgsphere"
	_ "adqlcore/internal/dialect/postgres"
	"adqlcore/internal/errs"
	"adqlcore/internal/metadata"
	"adqlcore/internal/parser"
	"adqlcore/internal/report"
	"adqlcore/internal/tableset"
	"adqlcore/internal/translate"
)

type checkFlags struct {
	configPath string
	queryFile  string
	format     string
	version    string
}

type translateFlags struct {
	configPath string
	queryFile  string
	format     string
	version    string
	dialect    string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "adqlctl",
		Short: "Parse, check, and translate ADQL queries",
	}

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(translateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check <query.adql>",
		Short: "Parse and semantically check an ADQL query against a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			flags.queryFile = args[0]
			return runCheck(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to the adqlctl TOML configuration file (required)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: text, json, or summary")
	cmd.Flags().StringVar(&flags.version, "adql-version", "2.0", "ADQL grammar version: 2.0 or 2.1")
	return cmd
}

func translateCmd() *cobra.Command {
	flags := &translateFlags{}
	cmd := &cobra.Command{
		Use:   "translate <query.adql>",
		Short: "Check an ADQL query, then emit dialect-specific SQL",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			flags.queryFile = args[0]
			return runTranslate(flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to the adqlctl TOML configuration file (required)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format: text, json, or summary")
	cmd.Flags().StringVar(&flags.version, "adql-version", "2.0", "ADQL grammar version: 2.0 or 2.1")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "Target SQL dialect, overriding the configuration file")
	return cmd
}

func runCheck(flags *checkFlags) error {
	cfg, catalog, err := loadConfigAndCatalog(flags.configPath)
	if err != nil {
		return err
	}

	_, rep, err := parseAndCheck(flags.queryFile, flags.version, catalog, cfg.Check)
	if err != nil {
		return err
	}

	formatter, err := report.NewFormatter(flags.format)
	if err != nil {
		return err
	}
	out, err := formatter.FormatCheck(rep)
	if err != nil {
		return fmt.Errorf("adqlctl: formatting check report: %w", err)
	}
	fmt.Print(out)
	if rep != nil && rep.HasErrors() {
		os.Exit(1)
	}
	return nil
}

func runTranslate(flags *translateFlags) error {
	cfg, catalog, err := loadConfigAndCatalog(flags.configPath)
	if err != nil {
		return err
	}

	dt := cfg.Dialect
	if flags.dialect != "" {
		dt = dialect.Type(flags.dialect)
	}
	d, err := dialect.Get(dt)
	if err != nil {
		return fmt.Errorf("adqlctl: %w", err)
	}

	q, rep, err := parseAndCheck(flags.queryFile, flags.version, catalog, cfg.Check)
	if err != nil {
		return err
	}

	formatter, err := report.NewFormatter(flags.format)
	if err != nil {
		return err
	}

	if rep != nil && rep.HasErrors() {
		out, err := formatter.FormatTranslation("", rep)
		if err != nil {
			return fmt.Errorf("adqlctl: formatting translation result: %w", err)
		}
		fmt.Print(out)
		os.Exit(1)
	}

	tr := translate.New(d, cfg.Registry)
	sql, err := tr.Translate(q)
	if err != nil {
		rep := &errs.Report{}
		if e, ok := err.(*errs.Error); ok {
			rep.Add(e)
		} else {
			rep.Add(errs.Newf(errs.Translation, "%s", err.Error()))
		}
		out, ferr := formatter.FormatTranslation("", rep)
		if ferr != nil {
			return fmt.Errorf("adqlctl: formatting translation result: %w", ferr)
		}
		fmt.Print(out)
		os.Exit(1)
	}

	out, err := formatter.FormatTranslation(sql, nil)
	if err != nil {
		return fmt.Errorf("adqlctl: formatting translation result: %w", err)
	}
	fmt.Print(out)
	return nil
}

func loadConfigAndCatalog(configPath string) (*config.Config, *metadata.Catalog, error) {
	if configPath == "" {
		return nil, nil, fmt.Errorf("adqlctl: --config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("adqlctl: %w", err)
	}

	f, err := os.Open(cfg.TablesetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("adqlctl: opening tableset %q: %w", cfg.TablesetPath, err)
	}
	defer f.Close()

	catalog, err := tableset.NewIngester(f).Ingest()
	if err != nil {
		return nil, nil, fmt.Errorf("adqlctl: ingesting tableset %q: %w", cfg.TablesetPath, err)
	}
	return cfg, catalog, nil
}

func parseAndCheck(queryFile, versionName string, catalog *metadata.Catalog, checkCfg check.Config) (*ast.Query, *errs.Report, error) {
	src, err := os.ReadFile(queryFile)
	if err != nil {
		return nil, nil, fmt.Errorf("adqlctl: reading %q: %w", queryFile, err)
	}

	version, err := parseVersion(versionName)
	if err != nil {
		return nil, nil, fmt.Errorf("adqlctl: %w", err)
	}

	q, err := parser.Parse(string(src), version)
	if err != nil {
		rep := &errs.Report{}
		if e, ok := err.(*errs.Error); ok {
			rep.Add(e)
		} else {
			rep.Add(errs.Newf(errs.Syntax, "%s", err.Error()))
		}
		return nil, rep, nil
	}

	checker := check.New(catalog, checkCfg)
	checked, err := checker.Check(q)
	if err != nil {
		if rep, ok := err.(*errs.Report); ok {
			return checked, rep, nil
		}
		return nil, nil, fmt.Errorf("adqlctl: %w", err)
	}
	return checked, &errs.Report{}, nil
}

func parseVersion(name string) (parser.Version, error) {
	switch strings.TrimSpace(name) {
	case "", "2.0":
		return parser.Version20, nil
	case "2.1":
		return parser.Version21, nil
	default:
		return 0, fmt.Errorf("unsupported --adql-version %q; use 2.0 or 2.1", name)
	}
}
