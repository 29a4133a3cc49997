package cmd

import (
	"context"
	"fmt"
	"log"

	"cmacbench/storage"

	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Test the MinIO connection and list bucket contents",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("MinIO config: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Could not connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection successful!")

		if err := storage.PrintBucketObjects(context.Background(), cfg, minioPrefix); err != nil {
			log.Fatalf("Failed to list bucket objects: %v", err)
		}
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "filter objects by prefix")
	rootCmd.AddCommand(minioCmd)

	minioCmd.Example = `  # list all objects
  cmacbench minio

  # list one group's artifacts
  cmacbench minio -p "CMACBench/Bengalese-Finch-Song/"`
}
