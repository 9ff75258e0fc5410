package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jintro/format"
	"github.com/dhamidi/jintro/java/refactor"
	"github.com/dhamidi/jintro/java/tree"
)

func newOccurrencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "occurrences <request.toml>",
		Short: "List the occurrences an introduction would replace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}
			target, err := req.target()
			if err != nil {
				return err
			}
			scope, err := req.scope()
			if err != nil {
				return err
			}
			occs, err := refactor.NewEngine().PreviewOccurrences(req.Tree, target, scope)
			if err != nil {
				return err
			}
			t := req.Tree
			for _, o := range occs {
				member := t.EnclosingMember(o.Expr)
				where := t.Name(t.EnclosingClass(o.Expr))
				if member.IsValid() {
					where += "." + memberLabel(t, member)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					strings.TrimPrefix(o.Expr.String(), "#"), where, format.PrettyPrintTree(t, o.Expr))
			}
			log.Infof("%d occurrence(s)", len(occs))
			return nil
		},
	}
}

func memberLabel(t *tree.Tree, member tree.NodeID) string {
	switch t.Kind(member) {
	case tree.KindConstructorDecl:
		return "<init>"
	case tree.KindInitializer:
		if t.IsStaticMember(member) {
			return "<clinit>"
		}
		return "<init-block>"
	}
	return t.Name(member)
}
