package archive

import (
	"bufio"
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// execBackend implements the backend contract by shelling out to the
// 7z binary, which reads the legacy container formats (cab, arj, lzh,
// ace) no Go library covers. It is only registered when the tool is on
// PATH. Process spawn failures and non-zero exits are reported the same
// way, as ErrBackendProcess.
type execBackend struct {
	format Format
	tool   string
}

func (e execBackend) run(opts Opts, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(opts.context(), e.tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	opts.Logger.Debug().Msgf("Running %s %s", e.tool, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(ErrBackendProcess, "%s %v: %v: %s",
			e.tool, args, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// entries lists every native record of the container via `7z l -slt`.
func (e execBackend) entries(path string, opts Opts) ([]Entry, error) {
	out, err := e.run(opts, "l", "-slt", path)
	if err != nil {
		return nil, err
	}
	entries, err := parseSltListing(out, string(e.format))
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", path)
	}
	return entries, nil
}

func (e execBackend) list(path, inner string, opts Opts) (*Listing, error) {
	entries, err := e.entries(path, opts)
	if err != nil {
		return nil, err
	}
	idx := newChildIndex(inner)
	for _, entry := range entries {
		idx.add(entry)
	}
	return idx.listing(path, e.format), nil
}

func (e execBackend) read(path, inner string, opts Opts) ([]byte, error) {
	entries, err := e.entries(path, opts)
	if err != nil {
		return nil, err
	}
	var target *Entry
	for i := range entries {
		if entries[i].InnerPath == inner {
			target = &entries[i]
			break
		}
	}
	if target == nil {
		return nil, errors.Wrapf(ErrEntryNotFound, "%q in %s", inner, path)
	}
	if target.Type == TypeDirectory {
		return nil, nil
	}
	return e.run(opts, "x", "-so", path, inner)
}

func (e execBackend) extract(path, dest string, selection []string, opts Opts) ([]string, error) {
	entries, err := e.entries(path, opts)
	if err != nil {
		return nil, err
	}

	var keep []Entry
	for _, entry := range entries {
		if selected(selection, entry.InnerPath) {
			keep = append(keep, entry)
		}
	}
	if len(keep) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating destination %s", dest)
	}

	args := []string{"x", "-y", "-o" + dest, path}
	for _, entry := range keep {
		args = append(args, entry.InnerPath)
	}
	if _, err := e.run(opts, args...); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(keep))
	for _, entry := range keep {
		written = append(written, filepath.Join(dest, filepath.FromSlash(entry.InnerPath)))
	}
	return written, nil
}

// parseSltListing parses `7z l -slt` output: a `----------` banner
// followed by one key/value block per entry, blocks separated by blank
// lines. Malformed numeric fields degrade to 0 instead of failing the
// whole listing.
func parseSltListing(out []byte, compression string) ([]Entry, error) {
	var entries []Entry
	var block map[string]string
	inEntries := false

	flush := func() {
		if block == nil {
			return
		}
		if entry, ok := sltEntry(block, compression); ok {
			entries = append(entries, entry)
		}
		block = nil
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "----------") {
			inEntries = true
			block = map[string]string{}
			continue
		}
		if !inEntries {
			continue
		}
		if line == "" {
			flush()
			block = map[string]string{}
			continue
		}
		if key, value, ok := strings.Cut(line, " = "); ok {
			block[key] = value
		}
	}
	flush()

	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(ErrBackendProcess, "scanning listing output: %v", err)
	}
	if !inEntries {
		return nil, errors.Wrap(ErrBackendProcess, "no entry listing in output")
	}
	return entries, nil
}

func sltEntry(block map[string]string, compression string) (Entry, bool) {
	p := normalizePath(block["Path"])
	if p == "" {
		return Entry{}, false
	}

	typ := TypeFile
	if block["Folder"] == "+" || strings.HasPrefix(block["Attributes"], "D") {
		typ = TypeDirectory
	}

	var size, packed int64
	if typ == TypeFile {
		size, _ = strconv.ParseInt(block["Size"], 10, 64)
		packed, _ = strconv.ParseInt(block["Packed Size"], 10, 64)
	}

	var modified int64
	if raw := block["Modified"]; raw != "" {
		// 7z prints timestamps down to the second, sometimes with a
		// fractional part appended.
		if len(raw) > 19 {
			raw = raw[:19]
		}
		if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
			modified = t.Unix()
		}
	}

	if method := block["Method"]; method != "" {
		compression = method
	}

	return Entry{
		Name:           baseName(p),
		InnerPath:      p,
		Type:           typ,
		Size:           size,
		CompressedSize: packed,
		Modified:       modified,
		Compression:    compression,
	}, true
}
