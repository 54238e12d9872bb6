// Package cli implements the classdump command-line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "classdump",
	Short: "Inspect compiled Java class files",
	Long:  `classdump walks a .class file's constant pool, attributes, and bytecode and prints a human-readable summary.`,
}

// Execute runs the root command, exiting the process on error the same way
// the library's own errors are expected to be surfaced to a caller.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
