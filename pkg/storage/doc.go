// Package storage reads and writes objects in an S3-compatible bucket.
//
// It backs the published translation documents of the site: the locale
// export uploads {prefix}/{locale}/{namespace}.json objects and the bucket
// translation source reads them back.
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "lightside-locales",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//
//	info, err := store.Put(ctx, "locales/en/default.json", bytes.NewReader(data), int64(len(data)),
//		storage.WithContentType("application/json"),
//		storage.WithCacheControl("public, max-age=300"),
//		storage.WithACL(storage.ACLPublicRead),
//	)
//
//	rc, err := store.Get(ctx, "locales/en/default.json")
//	if errors.Is(err, storage.ErrNotFound) {
//		// no such object
//	}
//	defer rc.Close()
//
// Errors returned by the AWS SDK are normalized to the sentinels in this
// package; match them with errors.Is.
//
// # MinIO and other S3-compatible services
//
// Set Endpoint and PathStyle:
//
//	storage.Config{
//		Endpoint:  "http://localhost:9000",
//		PathStyle: true,
//		...
//	}
package storage
