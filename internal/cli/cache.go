package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodemap/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached artifacts",
			Args:  cobra.NoArgs,
			RunE:  withCacheDir(runCacheClear),
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show the number and size of cached artifacts",
			Args:  cobra.NoArgs,
			RunE:  withCacheDir(runCacheInfo),
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			},
		},
	)
	return cmd
}

// withCacheDir opens the file cache for fn. A cache directory that was never
// created is reported as empty without creating it.
func withCacheDir(fn func(*cache.FileCache) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("get cache dir: %w", err)
		}
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			printInfo("Cache is empty")
			return nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return err
		}
		return fn(fc)
	}
}

func runCacheClear(fc *cache.FileCache) error {
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached artifacts", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func runCacheInfo(fc *cache.FileCache) error {
	n, size, err := fc.Usage()
	if err != nil {
		return err
	}
	printInfo("%d cached artifacts, %s", n, formatBytes(size))
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
