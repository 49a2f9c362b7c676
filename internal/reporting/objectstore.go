package reporting

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	markdownContentType  = "text/markdown; charset=utf-8"
	objectURLTemplate    = "%s://%s/%s/%s"
	objectNameTemplate   = "report_%d_%s.md"
	secureScheme         = "https"
	plainScheme          = "http"
	connectErrorTemplate = "connect object store: %w"
	bucketErrorTemplate  = "prepare bucket %q: %w"
	uploadErrorTemplate  = "upload %s: %w"
)

// ObjectStore uploads rendered reports.
type ObjectStore interface {
	Upload(executionContext context.Context, localPath string, leadID int64) (string, error)
}

// MinioObjectStore uploads to an S3-compatible bucket.
type MinioObjectStore struct {
	client        *minio.Client
	configuration ObjectStoreConfiguration
}

// NewMinioObjectStore connects and ensures the bucket exists.
func NewMinioObjectStore(executionContext context.Context, configuration ObjectStoreConfiguration) (*MinioObjectStore, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return nil, validationError
	}

	client, clientError := minio.New(configuration.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(configuration.AccessKey, configuration.SecretKey, ""),
		Secure: configuration.UseSSL,
		Region: configuration.Region,
	})
	if clientError != nil {
		return nil, fmt.Errorf(connectErrorTemplate, clientError)
	}

	exists, existsError := client.BucketExists(executionContext, configuration.Bucket)
	if existsError != nil {
		return nil, fmt.Errorf(bucketErrorTemplate, configuration.Bucket, existsError)
	}
	if !exists {
		if makeError := client.MakeBucket(executionContext, configuration.Bucket, minio.MakeBucketOptions{Region: configuration.Region}); makeError != nil {
			return nil, fmt.Errorf(bucketErrorTemplate, configuration.Bucket, makeError)
		}
	}

	return &MinioObjectStore{client: client, configuration: configuration}, nil
}

// Upload stores the file under a unique key and returns its URL.
func (store *MinioObjectStore) Upload(executionContext context.Context, localPath string, leadID int64) (string, error) {
	objectName := ObjectName(store.configuration.Prefix, leadID, uuid.NewString())
	if _, putError := store.client.FPutObject(executionContext, store.configuration.Bucket, objectName, localPath, minio.PutObjectOptions{ContentType: markdownContentType}); putError != nil {
		return "", fmt.Errorf(uploadErrorTemplate, localPath, putError)
	}

	scheme := plainScheme
	if store.configuration.UseSSL {
		scheme = secureScheme
	}
	return fmt.Sprintf(objectURLTemplate, scheme, store.client.EndpointURL().Host, store.configuration.Bucket, objectName), nil
}

// ObjectName builds the key of an uploaded report.
func ObjectName(prefix string, leadID int64, uniqueID string) string {
	return path.Join(prefix, fmt.Sprintf(objectNameTemplate, leadID, uniqueID))
}
