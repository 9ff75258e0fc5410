package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jintro/java/refactor"
)

func newPlanCmd() *cobra.Command {
	var ov overrides

	cmd := &cobra.Command{
		Use:   "plan <request.toml>",
		Short: "Show which initializer placements are legal for a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}
			ov.apply(cmd, &req.Config.Member)

			store, err := openSessionStore()
			if err != nil {
				log.Warningf("session: %v", err)
			}
			engineReq, err := req.request(store.Load())
			if err != nil {
				return err
			}

			plan, err := refactor.NewEngine().ComputePlacementPlan(engineReq)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, kind := range refactor.AllPlacements {
				switch {
				case kind == plan.Default && plan.Legal.Has(kind):
					fmt.Fprintf(out, "* %s\n", kind)
				case plan.Legal.Has(kind):
					fmt.Fprintf(out, "  %s\n", kind)
				default:
					fmt.Fprintf(out, "  %s: %s\n", hintColor.Sprint(kind.String()+" (excluded)"), plan.Excluded[kind])
				}
			}
			return nil
		},
	}
	ov.register(cmd)
	return cmd
}
