package storage

// Option configures Put operations.
type Option func(*putOptions)

type putOptions struct {
	contentType  string
	cacheControl string
	acl          ACL
}

// WithContentType sets the Content-Type of the object.
// Default: application/octet-stream.
func WithContentType(ct string) Option {
	return func(o *putOptions) {
		o.contentType = ct
	}
}

// WithCacheControl sets the Cache-Control header served with the object.
func WithCacheControl(cc string) Option {
	return func(o *putOptions) {
		o.cacheControl = cc
	}
}

// WithACL overrides the default ACL for this upload.
func WithACL(acl ACL) Option {
	return func(o *putOptions) {
		o.acl = acl
	}
}
