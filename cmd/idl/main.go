package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idl",
	Short: "Inspect and decode Anchor IDL documents",
	Long:  "idl parses legacy and spec dialect IDL documents, derives binary layouts, and encodes/decodes discriminator-framed wire data",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func main() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(discriminatorCmd)
	rootCmd.AddCommand(decodeCmd)

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
