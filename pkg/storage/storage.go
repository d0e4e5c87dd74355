package storage

import (
	"context"
	"io"
)

// Storage defines object storage operations.
type Storage interface {
	// Put uploads size bytes from r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, opts ...Option) (*ObjectInfo, error)

	// Get retrieves an object.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Head returns object metadata without downloading it.
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// Delete removes an object.
	Delete(ctx context.Context, key string) error
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"S3_BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"S3_ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"S3_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// PublicURL is the CDN or public URL prefix for public objects (optional).
	PublicURL string `env:"S3_PUBLIC_URL"`

	// DefaultACL is the default ACL for uploaded objects (default: private).
	DefaultACL ACL `env:"S3_DEFAULT_ACL" envDefault:"private"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE"`
}

// Enabled reports whether a bucket is configured at all.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	ContentType  string
	CacheControl string
	ACL          ACL
	Size         int64
}

// ACL represents access control levels for stored objects.
type ACL string

const (
	// ACLPrivate makes the object accessible only with credentials.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the object publicly readable.
	ACLPublicRead ACL = "public-read"
)

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

// validate checks that required configuration fields are set.
func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	switch c.DefaultACL {
	case ACLPrivate, ACLPublicRead:
	default:
		return ErrInvalidConfig
	}
	return nil
}
