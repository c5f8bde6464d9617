package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facetower/pkg/cache"
)

// clearer is implemented by caches that can drop every entry they own.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the recognition result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached reports and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			cl, ok := store.(clearer)
			if !ok {
				printInfo(cmd.OutOrStdout(), "Cache is disabled")
				return nil
			}
			n, err := cl.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Cleared %d cached entries", n)
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable entries from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openCache(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fc, ok := store.(*cache.FileCache)
			if !ok {
				printInfo(cmd.OutOrStdout(), "Nothing to prune for --cache=%s", c.cacheBackend)
				return nil
			}
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Pruned %d entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.resolveCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
