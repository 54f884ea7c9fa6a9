package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/justsurfingit/lead-scout/internal/mapper"
	"github.com/justsurfingit/lead-scout/internal/normalize"
)

var normalizeKind string

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Map raw provider output to lead or job records",
	Long:  "Reads raw provider text from a file (or stdin when no file is given), extracts the record array and prints the mapped records as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return eris.Wrap(err, "normalize: open input")
			}
			defer f.Close()
			in = f
		}

		raw, err := io.ReadAll(in)
		if err != nil {
			return eris.Wrap(err, "normalize: read input")
		}
		records := normalize.Objects(string(raw))

		var out any
		switch normalizeKind {
		case "leads":
			out = mapper.Opportunities(records)
		case "jobs":
			out = mapper.Jobs(records)
		default:
			return eris.Errorf("normalize: unknown kind %q (want leads or jobs)", normalizeKind)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeKind, "kind", "leads", "record kind: leads or jobs")
	rootCmd.AddCommand(normalizeCmd)
}
