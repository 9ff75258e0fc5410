package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/dhamidi/jintro/format"
	"github.com/dhamidi/jintro/java/refactor"
	"github.com/dhamidi/jintro/java/tree"
)

var (
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	hintColor  = color.New(color.FgCyan)
)

func printWarnings(w io.Writer, warnings []error) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %v\n", warnColor.Sprint("warning:"), warning)
	}
}

// printError prints err with a hint for the decision points a rerun with
// different flags can answer.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)

	var collision *refactor.NameCollisionError
	var illegal *refactor.IllegalPlacementError
	switch {
	case errors.As(err, &collision):
		fmt.Fprintln(w, hintColor.Sprint("hint: choose another name or pass --confirm to add it anyway"))
	case errors.As(err, &illegal) && !illegal.Legal.Empty():
		fmt.Fprintln(w, hintColor.Sprintf("hint: pass --placement with one of: %s", illegal.Legal))
	}
}

// writeProgram writes t as JSON or Java source to path, or stdout when
// path is empty or "-".
func writeProgram(path, outputFormat string, t *tree.Tree) error {
	w := io.Writer(os.Stdout)
	if path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if outputFormat == "tree" {
		_, err := io.WriteString(w, tree.Dump(t, t.Root()))
		return err
	}
	enc, err := format.NewEncoder(outputFormat, w)
	if err != nil {
		return err
	}
	return enc.Encode(t, t.Root())
}
