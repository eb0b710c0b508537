package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	confirmReset bool
	resetRedis   bool
	resetDB      bool
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the activity stream and/or local cache",
	Long: `Reset command clears the Redis activity stream and/or the SQLite cache.

By default, both are reset. You can selectively reset only Redis or only the
cache using the --redis-only or --db-only flags. The backend itself is never
touched.

WARNING: This operation is irreversible for local data.

Examples:
  # Reset both (requires confirmation)
  evidence-console reset

  # Reset with automatic confirmation
  evidence-console reset --yes

  # Reset only the activity stream
  evidence-console reset --redis-only

  # Reset only the local cache
  evidence-console reset --db-only`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVarP(&confirmReset, "yes", "y", false, "Automatically confirm reset operation")
	resetCmd.Flags().BoolVar(&resetRedis, "redis-only", false, "Reset only the Redis activity stream")
	resetCmd.Flags().BoolVar(&resetDB, "db-only", false, "Reset only the local cache")
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	resetBoth := !resetRedis && !resetDB
	if resetBoth {
		resetRedis = true
		resetDB = true
	}

	var targets []string
	if resetRedis {
		targets = append(targets, "Redis activity stream")
	}
	if resetDB {
		targets = append(targets, "local SQLite cache")
	}

	fmt.Printf("This will permanently delete: %s\n", strings.Join(targets, " and "))

	if !confirmReset {
		fmt.Print("Are you sure you want to continue? (y/N): ")
		var response string
		fmt.Scanln(&response)
		if strings.ToLower(response) != "y" && strings.ToLower(response) != "yes" {
			fmt.Println("Reset operation cancelled.")
			return nil
		}
	}

	if resetRedis {
		if err := resetActivityStream(ctx); err != nil {
			if !resetDB {
				return fmt.Errorf("failed to reset activity stream: %w", err)
			}
			fmt.Printf("Warning: Failed to reset activity stream: %v\n", err)
		} else {
			fmt.Println("Activity stream cleared successfully")
		}
	}

	if resetDB {
		if err := resetCache(); err != nil {
			return fmt.Errorf("failed to reset cache: %w", err)
		}
		fmt.Println("Local cache cleared successfully")
	}

	fmt.Println("Reset operation completed successfully!")
	return nil
}

func resetActivityStream(ctx context.Context) error {
	redisURL := viper.GetString("redis.url")
	if redisURL == "" {
		fmt.Println("No Redis URL configured, nothing to clear")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	n, err := client.Del(ctx, "case-activity").Result()
	if err != nil {
		return fmt.Errorf("failed to delete activity stream: %w", err)
	}
	if n == 0 {
		fmt.Println("No activity stream found to clear")
	}
	return nil
}

func resetCache() error {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "./data/evidence-console.db"
	}

	// Remove SQLite files including WAL sidecars
	dbFiles := []string{
		dbPath,
		dbPath + "-shm",
		dbPath + "-wal",
	}

	var removedFiles []string
	for _, file := range dbFiles {
		if _, err := os.Stat(file); err == nil {
			if err := os.Remove(file); err != nil {
				return fmt.Errorf("failed to remove cache file %s: %w", file, err)
			}
			removedFiles = append(removedFiles, filepath.Base(file))
		}
	}

	if len(removedFiles) == 0 {
		fmt.Println("No cache files found to remove")
		return nil
	}

	fmt.Printf("Removed cache files: %s\n", strings.Join(removedFiles, ", "))
	return nil
}
