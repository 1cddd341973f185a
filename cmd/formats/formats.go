// Package formats implements the formats command: list, show and validate descriptors.
package formats

import (
	"fmt"
	"io"

	"fjacquet/statement-import/cmd/root"
	"fjacquet/statement-import/internal/formats"

	"github.com/spf13/cobra"
)

// Cmd represents the formats command
var Cmd = &cobra.Command{
	Use:   "formats",
	Short: "Inspect format descriptors",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return List(c.GetRegistry(), cmd.OutOrStdout())
	},
}

var showCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a format descriptor as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("container not initialized")
		}
		return Show(c.GetRegistry(), args[0], cmd.OutOrStdout())
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a descriptor file without importing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Validate(args[0], cmd.OutOrStdout())
	},
}

func init() {
	Cmd.AddCommand(listCmd, showCmd, validateCmd)
}

// List prints one line per registered format.
func List(r *formats.Registry, out io.Writer) error {
	for _, name := range r.Names() {
		d, err := r.Get(name)
		if err != nil {
			return err
		}
		kind := "standard"
		if d.CreditCardFormat {
			kind = "credit-card"
		}
		_, _ = fmt.Fprintf(out, "%-12s %-11s %s\n", d.Name, kind, d.Description)
	}
	return nil
}

// Show prints the named descriptor as YAML.
func Show(r *formats.Registry, name string, out io.Writer) error {
	d, err := r.Get(name)
	if err != nil {
		return err
	}
	data, err := formats.Marshal(d)
	if err != nil {
		return fmt.Errorf("error rendering format: %w", err)
	}
	_, _ = fmt.Fprintf(out, "# source: %s\n", r.Source(name))
	_, err = out.Write(data)
	return err
}

// Validate parses path and reports the descriptors it defines.
func Validate(path string, out io.Writer) error {
	descs, err := formats.ParseFile(path)
	if err != nil {
		return err
	}
	for _, d := range descs {
		_, _ = fmt.Fprintf(out, "ok: %s\n", d.Name)
	}
	return nil
}
