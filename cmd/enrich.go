package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/intel-engine/internal/intel"
	"github.com/sells-group/intel-engine/internal/model"
)

var (
	enrichName    string
	enrichDomain  string
	enrichRole    string
	enrichAddress string
	enrichNoCache bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a single company into an intelligence record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if !enrichNoCache {
			cached, err := env.Store.Get(ctx, enrichName, enrichDomain)
			if err != nil {
				zap.L().Warn("cache lookup failed", zap.Error(err))
			} else if cached != nil {
				zap.L().Info("cache hit", zap.String("company", enrichName))
				return printRecord(cached)
			}
		}

		rec, err := env.Agg.Aggregate(ctx, intel.Request{
			CompanyName:    enrichName,
			Domain:         enrichDomain,
			ContactRole:    enrichRole,
			ContactAddress: enrichAddress,
		})
		if err != nil {
			return eris.Wrap(err, "enrich")
		}

		if putErr := env.Store.Put(ctx, enrichName, enrichDomain, rec, env.CacheTTL); putErr != nil {
			zap.L().Warn("cache write failed", zap.Error(putErr))
		}

		zap.L().Info("enrichment complete",
			zap.String("company", rec.CompanyName),
			zap.Int("sources", len(rec.Sources)),
			zap.Int("signals", len(rec.Signals)),
			zap.Bool("degraded", rec.Error != ""),
		)

		return printRecord(rec)
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichName, "name", "", "company name (required)")
	enrichCmd.Flags().StringVar(&enrichDomain, "domain", "", "company website domain")
	enrichCmd.Flags().StringVar(&enrichRole, "role", "", "contact role hint")
	enrichCmd.Flags().StringVar(&enrichAddress, "address", "", "contact location hint")
	enrichCmd.Flags().BoolVar(&enrichNoCache, "no-cache", false, "bypass the record cache")
	_ = enrichCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(enrichCmd)
}

// printRecord writes the record as indented JSON to stdout.
func printRecord(rec *model.IntelligenceRecord) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}
