package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrConstraint indicates a foreign key or check constraint violation.
	ErrConstraint = errors.New("constraint violation")

	// ErrBusy indicates the database was locked by another connection.
	ErrBusy = errors.New("database busy")

	// ErrNotVideo indicates the source file is not a video.
	ErrNotVideo = errors.New("not a video file")

	// ErrNothingPicked indicates the import source yielded no file.
	ErrNothingPicked = errors.New("nothing picked")

	// ErrInvalidOption indicates an unknown filter or sort name.
	ErrInvalidOption = errors.New("invalid option")
)

// Import steps reported in ImportError.Op.
const (
	OpPick      = "pick"
	OpSniff     = "sniff"
	OpCopy      = "copy"
	OpProbe     = "probe"
	OpSave      = "save"
	OpThumbnail = "thumbnail"
)

// ImportError reports which import step failed for a source file.
type ImportError struct {
	Path string
	Op   string
	Err  error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
