// Package archive presents a unified directory-tree view over
// heterogeneous archive container formats. Callers browse, read and
// extract entries through three operations that behave identically
// whatever container format is in play; format detection, inner-path
// normalization and direct-child synthesis are handled here.
//
// All operations are synchronous, open their own file handle and hold
// no cross-call state, so concurrent calls are safe. Format detection
// is extension-only by design; file contents are never sniffed.
package archive

import (
	"context"
	"os/exec"
	"sync"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// sevenZipTool is the external helper used for the legacy formats no
// Go library covers.
const sevenZipTool = "7z"

// Opts holds per-call options shared by all operations.
type Opts struct {
	Context context.Context
	Logger  zerolog.Logger
}

func (o Opts) context() context.Context {
	if o.Context != nil {
		return o.Context
	}
	return context.Background()
}

// backend is the per-format capability set. Paths given to a backend
// are already normalized.
type backend interface {
	list(path, inner string, opts Opts) (*Listing, error)
	read(path, inner string, opts Opts) ([]byte, error)
	extract(path, dest string, selection []string, opts Opts) ([]string, error)
}

var (
	registryOnce sync.Once
	registry     map[Format]backend
)

// backends returns the capability registry, resolved once per process.
// Library-backed formats are always present; the process-backed legacy
// formats register only when the helper tool is on PATH.
func backends() map[Format]backend {
	registryOnce.Do(func() {
		registry = map[Format]backend{
			FormatZip:      walker{format: FormatZip, extractor: archives.Zip{}},
			FormatTar:      walker{format: FormatTar, extractor: archives.Tar{}, compression: "None"},
			FormatTarGz:    walker{format: FormatTarGz, extractor: archives.Tar{}, codec: archives.Gz{}, compression: "Gzip"},
			FormatTarBz2:   walker{format: FormatTarBz2, extractor: archives.Tar{}, codec: archives.Bz2{}, compression: "Bzip2"},
			FormatTarXz:    walker{format: FormatTarXz, extractor: archives.Tar{}, codec: archives.Xz{}, compression: "Xz"},
			FormatTarZst:   walker{format: FormatTarZst, extractor: archives.Tar{}, codec: archives.Zstd{}, compression: "Zstd"},
			FormatSevenZip: walker{format: FormatSevenZip, extractor: archives.SevenZip{}},
			FormatRar:      walker{format: FormatRar, extractor: archives.Rar{}},
			FormatGz:       stream{format: FormatGz, codec: archives.Gz{}, label: "Gzip", suffixes: []string{".gz"}},
			FormatBz2:      stream{format: FormatBz2, codec: archives.Bz2{}, label: "Bzip2", suffixes: []string{".bz2"}},
			FormatXz:       stream{format: FormatXz, codec: archives.Xz{}, label: "Xz", suffixes: []string{".xz"}},
			FormatZst:      stream{format: FormatZst, codec: archives.Zstd{}, label: "Zstd", suffixes: []string{".zst", ".zstd"}},
		}
		if _, err := exec.LookPath(sevenZipTool); err == nil {
			for _, format := range []Format{FormatCab, FormatArj, FormatLzh, FormatAce} {
				registry[format] = execBackend{format: format, tool: sevenZipTool}
			}
		}
	})
	return registry
}

func resolve(path string) (backend, error) {
	format, ok := Detect(path)
	if !ok {
		return nil, errors.Wrap(ErrUnrecognizedFormat, path)
	}
	b, ok := backends()[format]
	if !ok || b == nil {
		return nil, errors.Wrapf(ErrFeatureNotCompiled, "format %s", format)
	}
	return b, nil
}

// List returns the direct children of innerPath inside the archive at
// archivePath. An empty innerPath lists the archive root. Intermediate
// directories implied by deeper entries are synthesized even when the
// container never stored them.
func List(archivePath, innerPath string, opts Opts) (*Listing, error) {
	b, err := resolve(archivePath)
	if err != nil {
		return nil, err
	}
	return b.list(archivePath, normalizePath(innerPath), opts)
}

// Read materializes the full decompressed contents of the entry at
// innerPath. The entry is matched by normalized path, so a trailing
// slash or backslashes on the lookup are tolerated.
func Read(archivePath, innerPath string, opts Opts) ([]byte, error) {
	b, err := resolve(archivePath)
	if err != nil {
		return nil, err
	}
	return b.read(archivePath, normalizePath(innerPath), opts)
}

// Extract writes entries of the archive under dest, keeping their inner
// paths, and returns the paths actually written. A non-empty selection
// limits extraction to the named inner paths and their descendants; an
// empty selection extracts everything. Extraction is not transactional:
// on a mid-iteration failure, files already written remain on disk.
func Extract(archivePath, dest string, selection []string, opts Opts) ([]string, error) {
	b, err := resolve(archivePath)
	if err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(selection))
	for _, sel := range selection {
		if s := normalizePath(sel); s != "" {
			targets = append(targets, s)
		}
	}
	return b.extract(archivePath, dest, targets, opts)
}

// selected reports whether an entry at path survives the selection
// filter. An empty selection keeps everything.
func selected(targets []string, path string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if isDescendant(path, t) {
			return true
		}
	}
	return false
}
