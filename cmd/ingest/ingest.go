// Package ingest implements the import command: one export file into the ledger.
package ingest

import (
	"fmt"
	"io"

	cmdcommon "fjacquet/statement-import/cmd/common"
	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/report"

	"github.com/spf13/cobra"
)

var opts cmdcommon.ImportOptions

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import one CSV or Excel export",
	Long: `Import reads one export file, maps it through a format descriptor and writes the
accepted transactions to a ledger CSV.

Rows already present in the existing ledger (-e) are skipped as duplicates. With
--append the output ledger is kept and also used as a duplicate baseline.

Example:
  stmt-import import -i statement.xlsx -f max -e ledger.csv -o ledger.csv --append`,
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

// Run imports opts.Input and writes the ledger.
func Run(c *container.Container, opts cmdcommon.ImportOptions, out io.Writer) error {
	log := c.GetLogger()
	if opts.Input == "" {
		return fmt.Errorf("input file must be specified with -i")
	}
	if opts.Output == "" {
		opts.Output = cmdcommon.DefaultOutput(opts.Input)
	}

	format, err := c.GetFormat(opts.Format)
	if err != nil {
		return err
	}
	baseline, err := cmdcommon.LoadBaseline(opts, log)
	if err != nil {
		return err
	}

	pipeline := c.NewPipeline(len(baseline.Existing))
	result := pipeline.ImportFile(opts.Input, format, cmdcommon.CardPolicy(c, opts.Allowed, opts.Blocked), baseline.Existing)
	rep := &report.Report{Format: format.Name, Output: opts.Output}
	rep.Add(opts.Input, result)
	if err := cmdcommon.SaveReport(rep, opts, log); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("import of %s failed: %s", opts.Input, result.Error)
	}

	if err := cmdcommon.WriteLedger(baseline.Kept, result.Data, opts.Output, log); err != nil {
		return err
	}

	summary := cmdcommon.Summary{Output: opts.Output}
	summary.Add(result)
	cmdcommon.PrintSummary(out, summary)

	log.Info("Import command completed",
		logging.F(logging.FieldImportID, result.ImportID),
		logging.F(logging.FieldCount, len(result.Data)))
	return nil
}
