// Where: internal/infra/cfn/store.go
// What: Template storage backends (local file, S3 object).
// Why: Rewrite the compiled template wherever the deployment keeps it.
package cfn

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/esbuild-layers/internal/infra/fileops"
)

// Store loads and saves a template document.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) error
	Location() string
}

// FileStore keeps the template on the local filesystem.
type FileStore struct {
	Path string
}

func (s FileStore) Location() string { return s.Path }

func (s FileStore) Load(_ context.Context) (Document, error) {
	payload, err := os.ReadFile(s.Path)
	if err != nil {
		return Document{}, fmt.Errorf("read template: %w", err)
	}
	return Decode(payload)
}

func (s FileStore) Save(_ context.Context, doc Document) error {
	payload, err := Encode(doc)
	if err != nil {
		return err
	}
	return fileops.WriteFile(s.Path, payload)
}

// S3API is the subset of the S3 client used for templates.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps the template as an object in a deployment bucket.
type S3Store struct {
	Client S3API
	Bucket string
	Key    string
}

func (s S3Store) Location() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s S3Store) Load(ctx context.Context) (Document, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return Document{}, fmt.Errorf("get %s: %w", s.Location(), err)
	}
	defer out.Body.Close()
	payload, err := io.ReadAll(out.Body)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", s.Location(), err)
	}
	return Decode(payload)
}

func (s S3Store) Save(ctx context.Context, doc Document) error {
	payload, err := Encode(doc)
	if err != nil {
		return err
	}
	contentType := "application/json"
	if doc.Format == FormatYAML {
		contentType = "application/x-yaml"
	}
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(s.Key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.Location(), err)
	}
	return nil
}

// ParseS3URI splits `s3://bucket/key` into bucket and key.
func ParseS3URI(raw string) (string, string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if parsed.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 uri: %q", raw)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri requires bucket and key: %q", raw)
	}
	return parsed.Host, key, nil
}

// IsS3URI reports whether location names an S3 object.
func IsS3URI(location string) bool {
	return strings.HasPrefix(strings.TrimSpace(location), "s3://")
}
