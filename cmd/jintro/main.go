package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("jintro.cli")

func main() {
	var verbose int

	rootCmd := &cobra.Command{
		Use:           "jintro",
		Short:         "Introduce fields, constants and enum constants into Java programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "log more (repeat for debug output)")

	rootCmd.AddCommand(newIntroduceCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newOccurrencesCmd())
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newDumpCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
