package archive

import "github.com/pkg/errors"

// Sentinel errors for the failure modes callers are expected to branch
// on. Backends wrap these with the archive path and, where relevant,
// the offending entry; use errors.Is to test.
var (
	// ErrUnrecognizedFormat means the file extension matched no known
	// archive format.
	ErrUnrecognizedFormat = errors.New("unrecognized archive format")

	// ErrNotAValidArchive means the container could not be opened or
	// parsed as its detected format.
	ErrNotAValidArchive = errors.New("not a valid archive")

	// ErrEntryNotFound means a read or extract target does not exist
	// inside the archive.
	ErrEntryNotFound = errors.New("entry not found in archive")

	// ErrFeatureNotCompiled means the format was recognized but no
	// backend for it is available in this build or environment.
	ErrFeatureNotCompiled = errors.New("archive format support not available")

	// ErrBackendProcess means an external helper process could not be
	// spawned, exited non-zero, or produced unparsable output.
	ErrBackendProcess = errors.New("archive helper process failed")
)
