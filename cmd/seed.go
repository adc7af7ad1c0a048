package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gstledger/internal/config"
	"gstledger/internal/logger"
	"gstledger/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed [snapshot-file]",
	Short: "Load a snapshot JSON file into Redis",
	Long: `Replace the collections stored in Redis with those of a snapshot JSON file.
Settings are only replaced when the file contains them.

Uses REDIS_ADDRESS, REDIS_PASSWORD, REDIS_DB and REDIS_KEY_PREFIX.`,
	Example: `  gstledger seed data/snapshot.json`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("seed")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	snap, err := store.NewFileStore(args[0]).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	redisStore := store.NewRedisStore(store.RedisOptions{
		Address:   cfg.RedisAddress,
		Password:  cfg.RedisPassword,
		DB:        cfg.RedisDB,
		KeyPrefix: cfg.RedisKeyPrefix,
		Timeout:   cfg.RedisTimeout,
		CacheDir:  cfg.CacheDir,
	})
	defer redisStore.Close()

	if err := redisStore.Seed(ctx, snap); err != nil {
		return fmt.Errorf("failed to seed redis: %w", err)
	}

	log.Info().Str("file", args[0]).Str("redis", cfg.RedisAddress).Msg("Snapshot seeded")
	fmt.Printf("Seeded %d orders, %d vendors, %d buyers into %s\n",
		len(snap.Orders), len(snap.Vendors), len(snap.Buyers), cfg.RedisAddress)
	return nil
}
