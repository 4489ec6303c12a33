// Package storage uploads files to the clinic's shared cloud drive folder.
// Authentication uses the service identity: explicit JSON credentials via
// GCS_CREDENTIALS_JSON when set, otherwise application default credentials.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// ErrBucketNotConfigured is returned when no upload bucket is set.
var ErrBucketNotConfigured = errors.New("drive bucket is not configured")

// DriveClient uploads into a fixed bucket/prefix.
type DriveClient struct {
	bucket string
	prefix string
}

// NewDriveClient builds a client for the configured bucket and folder
// prefix.
func NewDriveClient(bucket, prefix string) *DriveClient {
	return &DriveClient{bucket: bucket, prefix: prefix}
}

func gcsClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := strings.TrimSpace(os.Getenv("GCS_CREDENTIALS_JSON")); credJSON != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// Upload stores one file under the shared folder prefix and returns the
// object key. The key keeps the upload's extension but replaces its name
// with a fresh uuid so staff uploads never collide.
func (d *DriveClient) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if d.bucket == "" {
		return "", ErrBucketNotConfigured
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := detectContentType(filename, data)

	client, err := gcsClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	objectKey := d.objectKey(filename)
	wc := client.Bucket(d.bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}
	return objectKey, nil
}

func (d *DriveClient) objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(d.prefix, uuid.New().String()+ext)
}

// detectContentType sniffs the payload, fixing up the office formats that
// sniff as plain zip archives.
func detectContentType(filename string, data []byte) string {
	contentType := http.DetectContentType(data)
	if contentType == "application/zip" {
		switch {
		case strings.HasSuffix(filename, ".xlsx"):
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		case strings.HasSuffix(filename, ".docx"):
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		}
	}
	return contentType
}
