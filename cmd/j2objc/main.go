package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:              "j2objc",
		Short:            "Translate Java sources to Objective-C",
		SilenceUsage:     true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log more; repeat for debug output")

	rootCmd.AddCommand(newTranslateCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newDeadCodeCmd())
	rootCmd.AddCommand(newParseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
