package cmd

import (
	"fmt"
	"log"

	"cmacbench/cache"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Test the Redis connection",
	Long:  `Check that Redis is reachable and that basic read/write operations work.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Redis config: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		fmt.Println("Redis connection successful!")

		if err := cache.TestRedis(); err != nil {
			log.Fatalf("Redis operation test failed: %v", err)
		}
		fmt.Println("Redis basic operations test successful!")

		if err := cache.CloseRedis(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
		fmt.Println("Redis test finished, connection closed.")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
