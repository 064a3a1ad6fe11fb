// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("params/"),
//	    s3.WithRegion("us-east-1"),
//	)
//	loader := source.NewLoader(source.WithStore("s3", store))
//
// # Features
//
//   - Range reads for partial fetches
//   - Managed parallel downloads of whole documents (Download)
//   - Streaming multipart uploads with CRC32C checksums on Put
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
