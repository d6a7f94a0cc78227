package archive

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// stream implements the backend contract for single-file compressed
// streams (gz, bz2, xz, zst without tar framing). Such files have no
// internal hierarchy: listings synthesize exactly one file entry at the
// root, named after the archive with its compression suffix stripped.
//
// The listed size is the compressed on-disk size. The true uncompressed
// size is not known without a full decode pass, so this is a documented
// approximation rather than a defect.
type stream struct {
	format   Format
	codec    archives.Decompressor
	label    string
	suffixes []string
}

// stem strips the compression suffix from the archive file name.
func (s stream) stem(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(lower, suffix) {
			return base[:len(base)-len(suffix)]
		}
	}
	return base
}

func (s stream) list(path, inner string, opts Opts) (*Listing, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}

	idx := newChildIndex(inner)
	idx.add(Entry{
		Name:           s.stem(path),
		InnerPath:      s.stem(path),
		Type:           TypeFile,
		Size:           fi.Size(),
		CompressedSize: fi.Size(),
		Modified:       fi.ModTime().Unix(),
		Compression:    s.label,
	})
	return idx.listing(path, s.format), nil
}

func (s stream) read(path, inner string, opts Opts) ([]byte, error) {
	if inner != s.stem(path) {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q in %s", inner, path)
	}

	rc, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(readerContext(opts.context(), rc))
	if err != nil {
		return nil, errors.Wrapf(ErrNotAValidArchive, "%s: %v", path, err)
	}
	return data, nil
}

func (s stream) extract(path, dest string, selection []string, opts Opts) ([]string, error) {
	stem := s.stem(path)
	if stem == "" || !selected(selection, stem) {
		return nil, nil
	}

	rc, err := s.open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating destination %s", dest)
	}

	out := filepath.Join(dest, stem)
	opts.Logger.Debug().Msgf("Extracting %s", stem)

	w, err := os.Create(out)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s", out)
	}
	defer w.Close()

	if _, err := io.Copy(w, readerContext(opts.context(), rc)); err != nil {
		return nil, errors.Wrapf(ErrNotAValidArchive, "%s: %v", path, err)
	}
	return []string{out}, nil
}

func (s stream) open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	rc, err := s.codec.OpenReader(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(ErrNotAValidArchive, "%s: %v", path, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{rc, closeBoth{rc, f}}, nil
}

// closeBoth closes a codec reader and the file underneath it.
type closeBoth struct {
	rc io.Closer
	f  io.Closer
}

func (c closeBoth) Close() error {
	err := c.rc.Close()
	if ferr := c.f.Close(); err == nil {
		err = ferr
	}
	return err
}
