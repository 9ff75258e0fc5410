package main

import (
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "dump <program.json>",
		Short: "Print a program as Java source, JSON or a node tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := loadProgram(args[0])
			if err != nil {
				return err
			}
			return writeProgram("", outputFormat, t)
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "java", "output format: java, json, line or tree")
	return cmd
}
