package errs

import (
	"errors"
	"fmt"
)

// Error kinds reported by the repository engine.
var (
	ErrNotInitialized     = errors.New("repository not initialized")
	ErrAlreadyInitialized = errors.New("repository already initialized")
	ErrEmptyCommit        = errors.New("nothing staged to commit")
	ErrCommitNotFound     = errors.New("commit not found")
	ErrMalformedRecord    = errors.New("malformed record")
	ErrIO                 = errors.New("storage i/o failure")

	ErrNothingToUndo   = errors.New("no revert to undo")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrEmptyMessage    = errors.New("commit message is empty")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotFound    = errors.New("file not found")
)

// RecordError describes a persisted record that failed to parse.
type RecordError struct {
	Path   string
	Line   int
	Reason string
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record %s (line %d): %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed record %s: %s", e.Path, e.Reason)
}

func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

// IOError wraps a filesystem failure on the storage root.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error        { return e.Err }
func (e *IOError) Is(target error) bool { return target == ErrIO }

// WrapIO returns nil for a nil err, otherwise an *IOError.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrNotInitialized, "NotInitialized"},
	{ErrAlreadyInitialized, "AlreadyInitialized"},
	{ErrEmptyCommit, "EmptyCommit"},
	{ErrCommitNotFound, "CommitNotFound"},
	{ErrMalformedRecord, "MalformedRecord"},
	{ErrIO, "IOFailure"},
	{ErrNothingToUndo, "NothingToUndo"},
	{ErrInvalidFilename, "InvalidFilename"},
	{ErrEmptyMessage, "EmptyMessage"},
	{ErrFileExists, "FileExists"},
	{ErrFileNotFound, "FileNotFound"},
}

// Kind names the error kind of err, or "" if err matches none.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
