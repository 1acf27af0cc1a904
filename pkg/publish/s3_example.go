//go:build s3example
// +build s3example

// This file provides an example S3 Publisher implementation.
// It is excluded from regular builds because it requires the AWS SDK.
//
// To use this in your project, copy this file and add the AWS SDK:
//   go get github.com/aws/aws-sdk-go-v2
//   go get github.com/aws/aws-sdk-go-v2/config
//   go get github.com/aws/aws-sdk-go-v2/service/s3

package publish

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Publisher ships releases to an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	s3Client := s3.NewFromConfig(cfg)
//	pub := publish.NewS3Publisher(s3Client, "my-bucket", "releases/")
//
//	pub.Publish(ctx, rel)
type S3Publisher struct {
	client   *s3.Client
	bucket   string
	prefix   string
	cacheAge time.Duration
}

// NewS3Publisher creates an S3-backed publisher.
//
// Parameters:
//   - client: AWS S3 client from aws-sdk-go-v2
//   - bucket: S3 bucket name
//   - prefix: Key prefix for releases (e.g. "releases/")
func NewS3Publisher(client *s3.Client, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		cacheAge: 365 * 24 * time.Hour,
	}
}

// WithCacheAge sets the Cache-Control max-age applied to artifacts.
// Versioned keys are immutable, so long lifetimes are safe.
func (p *S3Publisher) WithCacheAge(d time.Duration) *S3Publisher {
	p.cacheAge = d
	return p
}

// Publish uploads every artifact under prefix/version/.
func (p *S3Publisher) Publish(ctx context.Context, rel Release) error {
	if len(rel.Artifacts) == 0 {
		return ErrNoArtifacts
	}
	if rel.Version == "" {
		return fmt.Errorf("publish: release version is empty")
	}

	cacheControl := fmt.Sprintf("public, max-age=%d, immutable", int(p.cacheAge.Seconds()))

	for _, a := range rel.Artifacts {
		key := p.prefix + rel.Version + "/" + a.Name

		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(p.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(a.Body),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String(cacheControl),
			Metadata: map[string]string{
				"release-version": rel.Version,
				"publish-time":    time.Now().UTC().Format(time.RFC3339),
			},
		})
		if err != nil {
			return fmt.Errorf("s3 upload %s failed: %w", key, err)
		}
	}

	return nil
}

// Prune removes release objects older than maxAge.
func (p *S3Publisher) Prune(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(p.bucket),
		Prefix: aws.String(p.prefix),
	})

	var toDelete []string

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}

		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				if obj.Key != nil {
					toDelete = append(toDelete, *obj.Key)
				}
			}
		}
	}

	for _, key := range toDelete {
		p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(p.bucket),
			Key:    aws.String(key),
		})
	}

	return nil
}
