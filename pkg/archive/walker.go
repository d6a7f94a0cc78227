package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/zip"
	"github.com/mholt/archives"
	"github.com/nwaples/rardecode/v2"
	"github.com/pkg/errors"
)

// walker implements the backend contract for every library-backed
// container format. One entry-iteration routine is shared across the
// whole family: an optional decompressing codec is chained ahead of the
// entry reader, and per-format metadata is recovered from the native
// header each entry carries.
type walker struct {
	format    Format
	extractor archives.Extractor
	codec     archives.Decompressor
	// compression labels tar-family entries, whose headers carry no
	// codec information of their own.
	compression string
}

// walk opens the container and runs fn over every native entry. Errors
// returned by fn abort the walk and surface unchanged; anything else
// that stops iteration is a container parse failure.
func (w walker) walk(ctx context.Context, path string, fn archives.FileHandler) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening archive %s", path)
	}
	defer f.Close()

	var input io.Reader = f
	if w.codec != nil {
		rc, err := w.codec.OpenReader(f)
		if err != nil {
			return errors.Wrapf(ErrNotAValidArchive, "%s: %v", path, err)
		}
		defer rc.Close()
		input = rc
	}

	var fnErr error
	err = w.extractor.Extract(ctx, input, func(ctx context.Context, f archives.FileInfo) error {
		herr := fn(ctx, f)
		if herr != nil && !errors.Is(herr, fs.SkipAll) && !errors.Is(herr, fs.SkipDir) {
			fnErr = herr
		}
		return herr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(ErrNotAValidArchive, "%s: %v", path, err)
	}
	return nil
}

// entry converts one native record to the canonical node shape.
// Directories always report size 0.
func (w walker) entry(f archives.FileInfo) Entry {
	p := normalizePath(f.NameInArchive)

	typ := TypeFile
	var size int64
	if f.IsDir() {
		typ = TypeDirectory
	} else {
		size = f.Size()
	}

	var modified int64
	if mt := f.ModTime(); !mt.IsZero() {
		modified = mt.Unix()
	}

	compressed, compression := w.meta(f)

	return Entry{
		Name:           baseName(p),
		InnerPath:      p,
		Type:           typ,
		Size:           size,
		CompressedSize: compressed,
		Modified:       modified,
		Compression:    compression,
	}
}

// meta recovers the compressed size and compression label from the
// format-native header. Formats that do not track per-entry packed
// sizes (tar, 7z solid blocks) report 0.
func (w walker) meta(f archives.FileInfo) (int64, string) {
	switch h := f.Header.(type) {
	case zip.FileHeader:
		return int64(h.CompressedSize64), zipMethodName(h.Method)
	case *tar.Header:
		return 0, w.compression
	case *rardecode.FileHeader:
		return h.PackedSize, "RAR"
	case sevenzip.FileHeader:
		// 7z packs entries into solid blocks, so there is no per-entry
		// packed size to report.
		return 0, "7z"
	}
	return 0, w.compression
}

func zipMethodName(method uint16) string {
	switch method {
	case zip.Store:
		return "Stored"
	case zip.Deflate:
		return "Deflated"
	default:
		return fmt.Sprintf("Method(%d)", method)
	}
}

func (w walker) list(path, inner string, opts Opts) (*Listing, error) {
	idx := newChildIndex(inner)
	err := w.walk(opts.context(), path, func(_ context.Context, f archives.FileInfo) error {
		idx.add(w.entry(f))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx.listing(path, w.format), nil
}

func (w walker) read(path, inner string, opts Opts) ([]byte, error) {
	var data []byte
	found := false
	err := w.walk(opts.context(), path, func(_ context.Context, f archives.FileInfo) error {
		if normalizePath(f.NameInArchive) != inner {
			return nil
		}
		found = true
		if f.IsDir() {
			return fs.SkipAll
		}
		rc, err := f.Open()
		if err != nil {
			return errors.Wrapf(err, "opening entry %q in %s", inner, path)
		}
		defer rc.Close()
		if data, err = io.ReadAll(rc); err != nil {
			return errors.Wrapf(err, "reading entry %q in %s", inner, path)
		}
		return fs.SkipAll
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q in %s", inner, path)
	}
	return data, nil
}

func (w walker) extract(path, dest string, selection []string, opts Opts) ([]string, error) {
	destRoot := filepath.Clean(dest)
	var written []string
	err := w.walk(opts.context(), path, func(ctx context.Context, f archives.FileInfo) error {
		p := normalizePath(f.NameInArchive)
		if p == "" || !selected(selection, p) {
			return nil
		}

		out := filepath.Join(destRoot, filepath.FromSlash(p))
		if !strings.HasPrefix(out, destRoot+string(os.PathSeparator)) {
			opts.Logger.Warn().Msgf("Skipping entry escaping destination: %s", f.NameInArchive)
			return nil
		}

		if f.FileInfo.IsDir() {
			opts.Logger.Trace().Msgf("Extracting %s", p)
		} else {
			opts.Logger.Debug().Msgf("Extracting %s", p)
		}

		switch {
		case f.FileInfo.IsDir():
			if err := os.MkdirAll(out, f.Mode()); err != nil {
				return errors.Wrapf(err, "creating directory %s", out)
			}
		case f.FileInfo.Mode()&fs.ModeSymlink != 0:
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.Wrapf(err, "creating parent of %s", out)
			}
			if err := writeSymlink(out, f); err != nil {
				return err
			}
		default:
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return errors.Wrapf(err, "creating parent of %s", out)
			}
			if err := writeFile(ctx, out, f); err != nil {
				return errors.Wrapf(err, "writing entry %q to %s", p, out)
			}
		}
		written = append(written, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

func writeFile(ctx context.Context, path string, f archives.FileInfo) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	if mode := f.Mode().Perm(); mode != 0 {
		if err := w.Chmod(mode); err != nil {
			return err
		}
	}

	_, err = io.Copy(w, readerContext(ctx, r))
	return err
}

func writeSymlink(path string, f archives.FileInfo) error {
	if f.LinkTarget == "" {
		return errors.Errorf("symlink target is empty for %s", f.NameInArchive)
	}

	if _, err := os.Lstat(path); err == nil {
		if err = os.Remove(path); err != nil {
			return err
		}
	}

	return os.Symlink(f.LinkTarget, path)
}

type reader struct {
	ctx context.Context
	r   io.Reader
}

func readerContext(ctx context.Context, r io.Reader) io.Reader {
	return reader{ctx, r}
}

func (r reader) Read(p []byte) (int, error) {
	err := r.ctx.Err()
	if err != nil {
		return 0, err
	}
	n, err := r.r.Read(p)
	if err != nil {
		return n, err
	}
	return n, r.ctx.Err()
}
