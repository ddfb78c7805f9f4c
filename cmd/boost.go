package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	boostName   string
	boostDomain string
)

var boostCmd = &cobra.Command{
	Use:   "boost",
	Short: "Re-run a deeper pass for an already-enriched company",
	Long:  "Fetches a wider set of website paths for a company whose record is already cached, then merges the refreshed result back into the cache.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		existing, err := env.Store.Get(ctx, boostName, boostDomain)
		if err != nil {
			return eris.Wrap(err, "boost: cache lookup")
		}
		if existing == nil {
			return eris.Errorf("boost: no cached record for %q, run enrich first", boostName)
		}

		rec, err := env.Agg.Boost(ctx, existing, boostDomain)
		if err != nil {
			return eris.Wrap(err, "boost")
		}

		if putErr := env.Store.Put(ctx, boostName, boostDomain, rec, env.CacheTTL); putErr != nil {
			zap.L().Warn("cache write failed", zap.Error(putErr))
		}

		zap.L().Info("boost complete",
			zap.String("company", rec.CompanyName),
			zap.Int("sources", len(rec.Sources)),
		)

		return printRecord(rec)
	},
}

func init() {
	boostCmd.Flags().StringVar(&boostName, "name", "", "company name (required)")
	boostCmd.Flags().StringVar(&boostDomain, "domain", "", "company website domain (required)")
	_ = boostCmd.MarkFlagRequired("name")
	_ = boostCmd.MarkFlagRequired("domain")
	rootCmd.AddCommand(boostCmd)
}
