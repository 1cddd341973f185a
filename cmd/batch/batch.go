// Package batch handles batch processing of files
package batch

import (
	"fmt"
	"io"
	"path/filepath"

	cmdcommon "fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/fileutils"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/report"

	"github.com/spf13/cobra"
)

var opts cmdcommon.ImportOptions

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Import every export in a directory",
	Long: `Batch imports every CSV, XLSX and XLS file in the input directory, in name order,
into one ledger CSV. Each file's accepted transactions join the duplicate baseline of
the files after it, so overlapping exports are only imported once. A file that fails
to import is reported and skipped.

Example:
  stmt-import batch -i exports/ -f isracard -o ledger.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		opts.Input = root.SharedFlags.Input
		opts.Output = root.SharedFlags.Output
		opts.Format = root.SharedFlags.Format
		return Run(c, opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Existing, "existing", "e", "", "Ledger CSV of already stored transactions")
	Cmd.Flags().BoolVar(&opts.Append, "append", false, "Keep the transactions already in the output ledger")
	Cmd.Flags().StringSliceVar(&opts.Allowed, "card", nil, "Only import rows of these cards (last digits)")
	Cmd.Flags().StringSliceVar(&opts.Blocked, "block-card", nil, "Never import rows of these cards")
	Cmd.Flags().StringVar(&opts.Report, "report", "", "Write a JSON or YAML run report to this path")
}

// Run imports every file of opts.Input and writes one ledger to opts.Output.
func Run(c *container.Container, opts cmdcommon.ImportOptions, out io.Writer) error {
	log := c.GetLogger()
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("input directory and output file must be specified")
	}

	format, err := c.GetFormat(opts.Format)
	if err != nil {
		return err
	}
	files, err := fileutils.ListImportFiles(opts.Input)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Warn("No supported files found in input directory", logging.F(logging.FieldFile, opts.Input))
		_, _ = fmt.Fprintln(out, "No supported files found")
		return nil
	}

	baseline, err := cmdcommon.LoadBaseline(opts, log)
	if err != nil {
		return err
	}
	known := baseline.Existing
	cards := cmdcommon.CardPolicy(c, opts.Allowed, opts.Blocked)

	summary := cmdcommon.Summary{Output: opts.Output}
	rep := &report.Report{Format: format.Name, Output: opts.Output}
	var imported []models.Transaction
	for _, path := range files {
		result := c.NewPipeline(len(known)).ImportFile(path, format, cards, known)
		summary.Add(result)
		rep.Add(path, result)
		if !result.Success {
			log.Warn("Skipping file",
				logging.F(logging.FieldFile, filepath.Base(path)),
				logging.F(logging.FieldReason, result.Error))
			_, _ = fmt.Fprintf(out, "%s: %s\n", filepath.Base(path), result.Error)
			continue
		}
		imported = append(imported, result.Data...)
		known = append(known, result.Data...)
	}

	if err := cmdcommon.SaveReport(rep, opts, log); err != nil {
		return err
	}
	if summary.Failed == summary.Files {
		return fmt.Errorf("no file in %s could be imported", opts.Input)
	}
	if err := cmdcommon.WriteLedger(baseline.Kept, imported, opts.Output, log); err != nil {
		return err
	}
	cmdcommon.PrintSummary(out, summary)
	log.Info("Batch command completed",
		logging.F(logging.FieldCount, summary.Imported),
		logging.F("files", summary.Files),
		logging.F("date_range", rep.DateRange.String()))
	return nil
}
