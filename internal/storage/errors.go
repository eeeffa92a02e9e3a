package storage

import "errors"

var (
	// ErrUnavailable indicates the managed directory cannot be created or accessed.
	ErrUnavailable = errors.New("managed storage unavailable")

	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a path outside the managed root was requested.
	ErrPathTraversal = errors.New("path traversal detected")
)
