package main

import (
	"context"
	"fmt"
	"os"
	"time"

	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/cache"
	"StockCast/internal/services/tickers"
	"StockCast/pkg/config"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "stockcast-tickers",
		Short:        "Maintain the tradable ticker universe",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "config/config.yaml", "config file path")
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Download NASDAQ and other-listed symbol directories and write the ticker list",
		Long: `Fetches nasdaqlisted.txt and otherlisted.txt, merges their symbols,
drops blanks and duplicates, upper-cases and sorts them, and writes one
ticker per line. With --redis the set is also loaded into Redis.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.LoadWithEnv(path)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = cfg.Tickers.File
			}
			toRedis, _ := cmd.Flags().GetBool("redis")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			return runGenerate(cmd.Context(), cfg, out, toRedis, timeout)
		},
	}
	cmd.Flags().String("out", "", "output file (defaults to tickers.file from config)")
	cmd.Flags().Bool("redis", false, "also replace the Redis ticker set")
	cmd.Flags().Duration("timeout", time.Minute, "download timeout")
	return cmd
}

func runGenerate(ctx context.Context, cfg *config.Config, out string, toRedis bool, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := resty.New().SetTimeout(timeout)
	gen := tickers.NewGenerator(client, tickers.DefaultSources(cfg.Tickers.NasdaqURL, cfg.Tickers.OtherURL)...)
	list, err := gen.Generate(ctx)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := tickers.WriteList(f, list); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out, err)
	}
	fmt.Printf("Saved %d tickers to %s\n", len(list), out)

	if toRedis {
		rdb := cache.NewRedisClient(cache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		u := internalrepo.NewRedisTickerUniverse(rdb, cfg.Tickers.RedisPrefix)
		if err := u.Replace(ctx, list); err != nil {
			return err
		}
		fmt.Printf("Loaded %d tickers into redis set %s\n", len(list), u.Key())
	}
	return nil
}
