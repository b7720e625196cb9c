package wfs

import "errors"

// Package-specific error variables that can be used with errors.Is() for error handling.
var (
	// ErrInvalidImage is returned when the superblock magic does not match. Fatal at mount.
	ErrInvalidImage = errors.New("wfs: invalid image, bad superblock magic")

	// ErrNotFound is returned when path resolution fails to locate a live entry.
	ErrNotFound = errors.New("wfs: no such file or directory")

	// ErrExist is returned when a creation would collide with an existing dentry name.
	ErrExist = errors.New("wfs: file already exists")

	// ErrNoSpace is returned when appending a log entry would push head past the image capacity.
	ErrNoSpace = errors.New("wfs: no space left on image")

	// ErrInvalidName is returned when a mknod/mkdir filename fails validation.
	ErrInvalidName = errors.New("wfs: invalid file name")

	// ErrNotDirectory is returned when a directory operation targets a regular file.
	ErrNotDirectory = errors.New("wfs: not a directory")

	// ErrIsDirectory is returned when a file operation targets a directory.
	ErrIsDirectory = errors.New("wfs: is a directory")

	// ErrTooManyInodes is returned by the compactor when the log holds more distinct inodes than its bookkeeping table tracks.
	ErrTooManyInodes = errors.New("wfs: too many inodes for compaction")
)

// Errno maps a core error to the negative POSIX error code the FUSE boundary
// reports back to the kernel, per the error kinds documented for the core.
func Errno(err error) int32 {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return -2 // ENOENT
	case errors.Is(err, ErrExist):
		return -17 // EEXIST
	case errors.Is(err, ErrNoSpace):
		return -28 // ENOSPC
	case errors.Is(err, ErrInvalidName):
		return -22 // EINVAL
	case errors.Is(err, ErrNotDirectory):
		return -20 // ENOTDIR
	case errors.Is(err, ErrIsDirectory):
		return -21 // EISDIR
	default:
		return -5 // EIO
	}
}
