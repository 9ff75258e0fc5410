package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jintro/java/refactor"
)

// overrides holds the command-line flags that take precedence over the
// [member] table of a request file.
type overrides struct {
	name        string
	placement   string
	visibility  string
	targetClass string
	replaceAll  bool
	deleteOrig  bool
	confirm     bool
	annotate    bool
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "member name")
	cmd.Flags().StringVarP(&o.placement, "placement", "p", "", "initializer placement: auto, declaration, method, constructors or setup")
	cmd.Flags().StringVar(&o.visibility, "visibility", "", "member visibility: private, package, protected or public")
	cmd.Flags().StringVar(&o.targetClass, "target-class", "", "simple name of the destination class")
	cmd.Flags().BoolVarP(&o.replaceAll, "all", "a", false, "replace every occurrence")
	cmd.Flags().BoolVar(&o.deleteOrig, "delete-original", false, "delete the statement holding the selection")
	cmd.Flags().BoolVar(&o.confirm, "confirm", false, "add the member even if the name is taken")
	cmd.Flags().BoolVar(&o.annotate, "annotate", false, "annotate the new member")
}

func (o *overrides) apply(cmd *cobra.Command, m *settingsConfig) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		m.Name = o.name
	}
	if flags.Changed("placement") {
		m.Placement = o.placement
	}
	if flags.Changed("visibility") {
		m.Visibility = o.visibility
	}
	if flags.Changed("target-class") {
		m.TargetClass = o.targetClass
	}
	if flags.Changed("all") {
		m.ReplaceAll = o.replaceAll
	}
	if flags.Changed("delete-original") {
		m.DeleteOriginal = o.deleteOrig
	}
	if flags.Changed("confirm") {
		m.ConfirmCollision = o.confirm
	}
	if flags.Changed("annotate") {
		m.Annotate = o.annotate
	}
}

func newIntroduceCmd() *cobra.Command {
	var (
		ov           overrides
		output       string
		outputFormat string
		inPlace      bool
		noSession    bool
	)

	cmd := &cobra.Command{
		Use:   "introduce <request.toml>",
		Short: "Promote a local variable or expression to a member",
		Long: `Reads an introduction request and the program JSON it names, performs
the introduction as one transaction and prints the resulting program.

Flags override the [member] table of the request file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest(args[0])
			if err != nil {
				return err
			}
			ov.apply(cmd, &req.Config.Member)

			var store *sessionStore
			if !noSession {
				if store, err = openSessionStore(); err != nil {
					log.Warningf("session: %v", err)
				}
			}
			engineReq, err := req.request(store.Load())
			if err != nil {
				return err
			}

			outcome, err := refactor.NewEngine().Introduce(engineReq)
			if err != nil {
				return err
			}
			printWarnings(os.Stderr, outcome.Warnings)
			log.Infof("introduced %s (%s, %s)", engineReq.Settings.Name, outcome.Placement, outcome.Visibility)
			if err := store.Save(outcome.Session); err != nil {
				log.Warningf("%v", err)
			}

			if inPlace {
				output, outputFormat = req.ProgramPath, "json"
			}
			if err := writeProgram(output, outputFormat, req.Tree); err != nil {
				return fmt.Errorf("write program: %w", err)
			}
			return nil
		},
	}

	ov.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result to this file instead of stdout")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "java", "output format: java, json, line or tree")
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "overwrite the program JSON")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "neither read nor update the remembered placement")

	return cmd
}
