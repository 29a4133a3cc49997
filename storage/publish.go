package storage

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"cmacbench/config"
	"cmacbench/logger"

	"github.com/minio/minio-go/v7"
)

// Artifacts published per group: split manifests, labelset/labelmap
// metadata, and model targets. Raw audio for restricted groups never
// leaves the local machine.
var publishSuffixes = []string{".csv", ".json", ".wav"}

// PublishGroup uploads the prepared artifacts of one group directory
// to the bucket under the prefix "CMACBench/<group>/". Returns the
// number of objects uploaded.
func PublishGroup(ctx context.Context, cfg *config.Config, groupDir, group string) (int, error) {
	if minioClient == nil {
		return 0, fmt.Errorf("MinIO client not initialized")
	}

	uploaded := 0
	err := filepath.WalkDir(groupDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !hasPublishSuffix(path) {
			return nil
		}

		rel, err := filepath.Rel(groupDir, path)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", path, err)
		}
		objectName := filepath.ToSlash(filepath.Join("CMACBench", group, rel))

		_, err = minioClient.FPutObject(ctx, cfg.MinioBucket, objectName, path, minio.PutObjectOptions{
			ContentType: contentTypeFor(path),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", objectName, err)
		}
		uploaded++
		logger.Debug("Uploaded object",
			logger.String("object", objectName))
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	logger.Info("Published group artifacts",
		logger.String("group", group),
		logger.Int("objects", uploaded))
	return uploaded, nil
}

// FetchGroup downloads everything under "CMACBench/<group>/" from the
// bucket into destDir, preserving the relative layout. Returns the
// number of objects downloaded.
func FetchGroup(ctx context.Context, cfg *config.Config, destDir, group string) (int, error) {
	if minioClient == nil {
		return 0, fmt.Errorf("MinIO client not initialized")
	}

	prefix := "CMACBench/" + group + "/"
	fetched := 0
	for object := range minioClient.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return fetched, fmt.Errorf("failed to list objects under %s: %w", prefix, object.Err)
		}

		rel := strings.TrimPrefix(object.Key, prefix)
		dest := filepath.Join(destDir, group, filepath.FromSlash(rel))
		if err := minioClient.FGetObject(ctx, cfg.MinioBucket, object.Key, dest, minio.GetObjectOptions{}); err != nil {
			return fetched, fmt.Errorf("failed to download %s: %w", object.Key, err)
		}
		fetched++
	}

	logger.Info("Fetched group artifacts",
		logger.String("group", group),
		logger.Int("objects", fetched))
	return fetched, nil
}

// PrintBucketObjects lists bucket objects under prefix to stdout with
// a per-object size and a summary line.
func PrintBucketObjects(ctx context.Context, cfg *config.Config, prefix string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}

	count := 0
	var totalSize int64
	for object := range minioClient.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return fmt.Errorf("failed to list objects under %q: %w", prefix, object.Err)
		}
		fmt.Printf("  %10d  %s\n", object.Size, object.Key)
		count++
		totalSize += object.Size
	}
	fmt.Printf("%d objects, %.2f MB total\n", count, float64(totalSize)/(1024*1024))
	return nil
}

func hasPublishSuffix(path string) bool {
	for _, suffix := range publishSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
