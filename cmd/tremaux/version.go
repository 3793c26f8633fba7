package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tremaux"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tremaux",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tremaux version %s\n", strings.TrimSpace(tremaux.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
