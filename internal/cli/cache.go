package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/cache"
	"github.com/matzehuels/dijkstraviz/pkg/config"
)

// cacheCommand groups the graph cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the graph cache",
		Long: `Generated graphs are cached by node count, probability, seed and region,
so asking for the same graph twice skips generation. The cache lives in the
directory printed by "cache path" and, when cache.redis_url is set, in Redis.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := clearFileCache(cfg.Cache.Dir); err != nil {
				return err
			}
			if cfg.Cache.RedisURL != "" {
				clearRedisCache(withLogger(cmd.Context(), c.Logger), cfg.Cache)
			}
			return nil
		},
	}
}

func clearFileCache(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	n, err := fc.Clear()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", dir)
	return nil
}

// clearRedisCache is best effort: an unreachable server only costs a warning,
// since its entries expire after the configured TTL anyway.
func clearRedisCache(ctx context.Context, cc config.CacheConfig) {
	rc, err := cache.NewRedisCache(ctx, cc.RedisURL)
	if err != nil {
		loggerFromContext(ctx).Debug("Redis unavailable", "err", err)
		printWarning("Redis not cleared; its entries expire after %s", cc.TTL)
		return
	}
	defer rc.Close()

	n, err := rc.Clear(ctx)
	if err != nil {
		printWarning("Redis cleared partially (%d entries): %v", n, err)
		return
	}
	printSuccess("Cleared %d Redis entries", n)
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, cfg.Cache.Dir)
			return nil
		},
	}
}
