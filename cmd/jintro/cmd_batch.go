package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/jintro/format"
	"github.com/dhamidi/jintro/java/refactor"
)

// batchResult is the outcome of one request file. Each request owns its
// tree, so requests run independently.
type batchResult struct {
	path    string
	outcome refactor.Outcome
	source  []byte
	err     error
}

// runBatch introduces every request concurrently. A failing request does
// not stop the others; only cancellation of ctx does.
func runBatch(ctx context.Context, paths []string, session refactor.Session, jobs int) ([]batchResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]batchResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}
	engine := refactor.NewEngine()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = introduceOne(engine, path, session)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func introduceOne(engine *refactor.Engine, path string, session refactor.Session) batchResult {
	res := batchResult{path: path}
	req, err := loadRequest(path)
	if err != nil {
		res.err = err
		return res
	}
	engineReq, err := req.request(session)
	if err != nil {
		res.err = err
		return res
	}
	if res.outcome, res.err = engine.Introduce(engineReq); res.err != nil {
		return res
	}
	var buf bytes.Buffer
	if err := format.NewJavaPrettyPrinter(&buf).Print(req.Tree, req.Tree.Root()); err != nil {
		res.err = fmt.Errorf("print %s: %w", path, err)
		return res
	}
	res.source = buf.Bytes()
	return res
}

func newBatchCmd() *cobra.Command {
	var (
		jobs   int
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "batch <request.toml>...",
		Short: "Run several independent introductions in parallel",
		Long: `Runs each request against its own copy of its program. Results are
printed in argument order, or written to <dir>/<request>.java with --out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore()
			if err != nil {
				log.Warningf("session: %v", err)
			}
			results, err := runBatch(cmd.Context(), args, store.Load(), jobs)
			if err != nil {
				return err
			}
			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}

			failed := 0
			var last refactor.Session
			hasLast := false
			for _, res := range results {
				if res.err != nil {
					failed++
					printError(os.Stderr, fmt.Errorf("%s: %w", res.path, res.err))
					continue
				}
				printWarnings(os.Stderr, res.outcome.Warnings)
				last, hasLast = res.outcome.Session, true
				if outDir == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s\n", res.path, res.source)
					continue
				}
				name := strings.TrimSuffix(filepath.Base(res.path), filepath.Ext(res.path)) + ".java"
				if err := os.WriteFile(filepath.Join(outDir, name), res.source, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", name, err)
				}
			}
			if hasLast {
				if err := store.Save(last); err != nil {
					log.Warningf("%v", err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d introductions failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "number of parallel introductions (default: GOMAXPROCS)")
	cmd.Flags().StringVar(&outDir, "out", "", "write each result to this directory")
	return cmd
}
