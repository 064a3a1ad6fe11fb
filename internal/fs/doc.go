// Package fs abstracts the file operations of the local blob store so that
// tests can inject I/O failures.
//
// Production code uses fs.Default ([LocalFS]). Tests wrap it in a
// [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
//
// Operations take no context.Context; local file calls are not
// interruptible at the syscall level. Remote stores use [blobstore.Blob].
package fs
