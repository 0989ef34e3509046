package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/cli"
	"github.com/aretw0/canopy/internal/logging"
)

// runCmd reads one command script and prints one boolean line per query.
var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a command script against a fresh lock tree",
	Long: `Reads a command script (from the given file, or stdin when omitted) and
prints "true" or "false" per query, in query order.

The script starts with a header "N M Q", followed by N node names (the
first is the root) and Q queries "OP NAME ID" with OP 1=lock, 2=unlock,
3=upgrade.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		levelName, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		logger := logging.New(level)

		var in io.Reader = os.Stdin
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				fmt.Printf("Error opening script: %v\n", err)
				os.Exit(1)
			}
			defer f.Close()
			in = f
		}

		opts := []canopy.Option{canopy.WithLogger(logger)}
		if ordered, _ := cmd.Flags().GetBool("ordered"); ordered {
			opts = append(opts, canopy.WithOrderedLocking())
		}

		if err := cli.Run(in, os.Stdout, opts...); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("ordered", false, "Use per-node ordered locking instead of the whole-tree mutex")
}
