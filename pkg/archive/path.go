package archive

import "strings"

// normalizePath canonicalizes a path inside an archive: backslashes
// become forward slashes and leading/trailing slashes are stripped.
// The empty string denotes the archive root. Idempotent.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.Trim(p, "/")
}

// isDescendant reports whether entry lives under parent. Both arguments
// must already be normalized. An empty parent matches everything, and a
// path is considered a descendant of itself; listing code excludes the
// parent node separately.
func isDescendant(entry, parent string) bool {
	if parent == "" {
		return true
	}
	return entry == parent || strings.HasPrefix(entry, parent+"/")
}

// directChildKey collapses an arbitrarily deep descendant of parent to
// the full path of the direct child it falls under. Both arguments must
// be normalized and entry must be a strict descendant of parent.
func directChildKey(entry, parent string) string {
	rel := entry
	if parent != "" {
		rel = strings.TrimPrefix(entry, parent+"/")
	}
	if i := strings.Index(rel, "/"); i >= 0 {
		rel = rel[:i]
	}
	if parent == "" {
		return rel
	}
	return parent + "/" + rel
}

// baseName returns the last segment of a normalized path.
func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
