package main

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/intel-engine/internal/batch"
	"github.com/sells-group/intel-engine/internal/model"
)

var (
	batchInput       string
	batchLimit       int
	batchConcurrency int
	batchOutput      string
	batchDryRun      bool
	batchNoCache     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich companies from a CSV or XLSX list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reqs, err := batch.ParseInput(batchInput)
		if err != nil {
			return err
		}
		zap.L().Info("parsed input", zap.Int("companies", len(reqs)))

		if batchLimit > 0 && batchLimit < len(reqs) {
			reqs = reqs[:batchLimit]
		}

		// Dry run: print parsed requests and exit.
		if batchDryRun {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(reqs)
		}

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrent
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		results := make([]*model.IntelligenceRecord, len(reqs))
		var succeeded, degraded, failed atomic.Int64

		for i, req := range reqs {
			g.Go(func() error {
				log := zap.L().With(zap.String("company", req.CompanyName))

				if !batchNoCache {
					cached, err := env.Store.Get(gctx, req.CompanyName, req.Domain)
					if err != nil {
						log.Warn("cache lookup failed", zap.Error(err))
					} else if cached != nil {
						succeeded.Add(1)
						mu.Lock()
						results[i] = cached
						mu.Unlock()
						return nil
					}
				}

				rec, err := env.Agg.Aggregate(gctx, req)
				if err != nil {
					failed.Add(1)
					log.Error("enrichment failed", zap.Error(err))
					return nil // don't abort batch on individual failure
				}

				if rec.Error != "" {
					degraded.Add(1)
				} else {
					succeeded.Add(1)
				}
				if putErr := env.Store.Put(gctx, req.CompanyName, req.Domain, rec, env.CacheTTL); putErr != nil {
					log.Warn("cache write failed", zap.Error(putErr))
				}

				mu.Lock()
				results[i] = rec
				mu.Unlock()
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "batch processing")
		}

		zap.L().Info("batch complete",
			zap.Int("total", len(reqs)),
			zap.Int64("succeeded", succeeded.Load()),
			zap.Int64("degraded", degraded.Load()),
			zap.Int64("failed", failed.Load()),
		)

		return writeBatchResults(results)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "path to CSV or XLSX company list (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max companies to process (0 = all)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max companies in flight (default from config)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results JSON to file (default: stdout)")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "parse input and print companies, skip enrichment")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "bypass the record cache")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// writeBatchResults writes results to the output file or stdout, dropping
// slots for companies that failed outright.
func writeBatchResults(results []*model.IntelligenceRecord) error {
	out := make([]*model.IntelligenceRecord, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}

	var w *os.File
	if batchOutput != "" {
		f, err := os.Create(batchOutput)
		if err != nil {
			return eris.Wrap(err, "batch: create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	} else {
		w = os.Stdout
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
