package checks

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"offer-reconciler/core/audit"
	"offer-reconciler/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ReportFolders returns the folders the report archive writes to.
func ReportFolders(prefix string) []string {
	return []string{
		path.Join(prefix, audit.KindResearch) + "/",
		path.Join(prefix, audit.KindDiscovery) + "/",
	}
}

// CheckStorage returns the report folders missing from the bucket.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) ([]string, error) {
	if client == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	missing := []string{}
	for _, folder := range ReportFolders(prefix) {
		opts := minio.ListObjectsOptions{
			Prefix:    folder,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for range client.ListObjects(ctx, bucket, opts) {
			found = true
			break
		}

		if !found {
			missing = append(missing, folder)
		}
	}

	return missing, nil
}

// FixStorage creates the bucket if needed and the missing folders.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, missing []string) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}
	for _, folder := range missing {
		_, err := client.PutObject(ctx, bucket, folder, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}
