// Package main provides the samplesheet command line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/samplesheet/internal/config"
	"github.com/JonMunkholm/samplesheet/internal/core"
	"github.com/JonMunkholm/samplesheet/internal/logging"
	"github.com/JonMunkholm/samplesheet/internal/samplesheet"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errFailed signals a sheet that validated with findings. The report has
// already been printed, so main only sets the exit code.
var errFailed = errors.New("validation failed")

// cli holds flag values shared by the subcommands.
type cli struct {
	cfg *config.ValidationConfig

	outputPath string
	logLevel   string
	field      string
}

func main() {
	// A missing .env is normal for the CLI
	_ = godotenv.Load()

	cmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(2)
	}
}

func newRootCmd() (*cobra.Command, error) {
	cfg, err := config.LoadValidation()
	if err != nil {
		return nil, err
	}
	c := &cli{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "samplesheet",
		Short:         "Validate and transform Illumina SampleSheets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), c.logLevel, "text")
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringSliceVar(&c.cfg.DataSections, "data-sections", c.cfg.DataSections, "Data section names in priority order")

	rootCmd.AddCommand(c.validateCmd(), c.revcompCmd(), c.convertCmd())
	return rootCmd, nil
}

func (c *cli) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sheet>",
		Short: "Validate a SampleSheet and print a PASS/FAILED report",
		Long: `Validate checks header columns, record fields against a JSON Schema,
per-sample rules and lane-scoped duplicates. It exits 1 when the sheet
has findings and 2 when the sheet or schema cannot be used.`,
		Args: cobra.ExactArgs(1),
		RunE: c.runValidate,
	}

	f := cmd.Flags()
	f.StringVar(&c.cfg.SchemaPath, "schema", c.cfg.SchemaPath, "JSON Schema for data records (env SCHEMA_PATH)")
	f.StringSliceVar(&c.cfg.AllowedColumns, "allowed-columns", c.cfg.AllowedColumns, "Header allow-list (default: schema properties)")
	f.StringVar(&c.cfg.SingleCellKeyword, "keyword", c.cfg.SingleCellKeyword, "Description keyword marking single-cell samples")
	f.StringVar(&c.cfg.LaneColumn, "lane-column", c.cfg.LaneColumn, "Column scoping duplicate checks, empty for none")
	f.StringVarP(&c.outputPath, "output", "o", "", "Report file path (default: stdout)")
	return cmd
}

func (c *cli) runValidate(cmd *cobra.Command, args []string) error {
	if c.cfg.SchemaPath == "" {
		return fmt.Errorf("--schema or SCHEMA_PATH is required")
	}

	opts := core.Options{
		AllowedColumns:    c.cfg.AllowedColumns,
		SingleCellKeyword: c.cfg.SingleCellKeyword,
		LaneColumn:        c.cfg.LaneColumn,
	}
	status, report, err := core.ValidateFiles(args[0], c.cfg.SchemaPath, opts, c.parseOptions())
	if err != nil {
		return err
	}

	out := string(status) + "\n"
	if report != "" {
		out += report + "\n"
	}
	if err := c.write(cmd.OutOrStdout(), out); err != nil {
		return err
	}

	if status == core.StatusFailed {
		return errFailed
	}
	return nil
}

func (c *cli) revcompCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revcomp <sheet>",
		Short: "Reverse-complement one index column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := samplesheet.ParseFile(args[0], c.parseOptions())
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), samplesheet.ReverseComplement(doc, c.field))
		},
	}

	cmd.Flags().StringVar(&c.field, "field", c.cfg.IndexField, "Column to reverse-complement (env INDEX_FIELD)")
	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func (c *cli) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <sheet>",
		Short: "Convert a V1 SampleSheet to the BCL Convert (V2) layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := samplesheet.ParseFile(args[0], c.parseOptions())
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), samplesheet.ConvertV1ToV2(doc, nil))
		},
	}

	cmd.Flags().StringVarP(&c.outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func (c *cli) parseOptions() samplesheet.Options {
	return samplesheet.Options{DataSections: c.cfg.DataSections}
}

// write sends s to the -o file when set, otherwise to stdout.
func (c *cli) write(stdout io.Writer, s string) error {
	if c.outputPath == "" {
		_, err := io.WriteString(stdout, s)
		return err
	}
	if err := os.WriteFile(c.outputPath, []byte(s), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
