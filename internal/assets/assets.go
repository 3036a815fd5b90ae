// Package assets turns stored recipe image paths into URLs a browser can load.
package assets

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/recipefinder/backend/config"
)

// URLResolver maps a stored image path to a public URL.
type URLResolver interface {
	Resolve(ctx context.Context, imagePath string) (string, error)
}

// New returns an S3 presigning resolver when a bucket is configured and a
// static resolver otherwise.
func New(ctx context.Context, cfg config.AssetsConfig) (URLResolver, error) {
	if !cfg.UsesS3() {
		return NewStaticResolver(cfg.BaseURL), nil
	}

	client, err := config.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewS3Resolver(client, cfg.S3Bucket, cfg.S3Prefix, cfg.PresignTTL), nil
}

// StaticResolver joins image paths onto a fixed base URL.
type StaticResolver struct {
	BaseURL string
}

func NewStaticResolver(baseURL string) *StaticResolver {
	if baseURL == "" {
		baseURL = "/"
	}
	return &StaticResolver{BaseURL: baseURL}
}

// Resolve passes absolute http(s) URLs through unchanged.
func (r *StaticResolver) Resolve(_ context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", nil
	}
	if isAbsolute(imagePath) {
		return imagePath, nil
	}
	return strings.TrimSuffix(r.BaseURL, "/") + "/" + cleanPath(imagePath), nil
}

// S3Resolver presigns GetObject URLs for images stored in a bucket. Signing
// is local and makes no network call.
type S3Resolver struct {
	presign *s3.PresignClient
	bucket  string
	prefix  string
	ttl     time.Duration
}

func NewS3Resolver(client *s3.Client, bucket, prefix string, ttl time.Duration) *S3Resolver {
	return &S3Resolver{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		ttl:     ttl,
	}
}

func (r *S3Resolver) Resolve(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", nil
	}
	if isAbsolute(imagePath) {
		return imagePath, nil
	}

	key := cleanPath(imagePath)
	if r.prefix != "" {
		key = path.Join(r.prefix, key)
	}

	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(r.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

func isAbsolute(p string) bool {
	u, err := url.Parse(p)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func cleanPath(p string) string {
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}
