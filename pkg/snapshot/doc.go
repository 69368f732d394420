// Package snapshot stores JSON copies of committed host trees.
//
// A Record is captured from an in-memory container after a commit and
// written to a Store under a key derived from the scene name and step:
//
//	rec := snapshot.Capture("counter", 2, container)
//	err := store.Put(ctx, rec)
//
// FileStore writes under a local directory. S3Store uploads to a bucket
// through the AWS SDK.
package snapshot
