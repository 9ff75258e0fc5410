package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var ov overrides

	cmd := &cobra.Command{
		Use:   "suggest <request.toml>",
		Short: "Suggest names for the member a request would introduce",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}
			ov.apply(cmd, &req.Config.Member)
			target, err := req.target()
			if err != nil {
				return err
			}
			s, err := req.Config.Member.settings()
			if err != nil {
				return err
			}
			for _, name := range suggestFor(req.Tree, target, s) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	ov.register(cmd)
	return cmd
}
