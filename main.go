package main

import (
	"os"

	"fjacquet/statement-import/cmd/batch"
	"fjacquet/statement-import/cmd/formats"
	"fjacquet/statement-import/cmd/ingest"
	"fjacquet/statement-import/cmd/root"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(formats.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
