package archive

import "strings"

// Format is the detected container format of an archive file.
type Format string

const (
	FormatZip      Format = "zip"
	FormatTar      Format = "tar"
	FormatTarGz    Format = "tar.gz"
	FormatTarBz2   Format = "tar.bz2"
	FormatTarXz    Format = "tar.xz"
	FormatTarZst   Format = "tar.zst"
	FormatGz       Format = "gz"
	FormatBz2      Format = "bz2"
	FormatXz       Format = "xz"
	FormatZst      Format = "zst"
	FormatSevenZip Format = "7z"
	FormatRar      Format = "rar"
	FormatCab      Format = "cab"
	FormatArj      Format = "arj"
	FormatLzh      Format = "lzh"
	FormatAce      Format = "ace"
)

type suffixRule struct {
	suffix string
	format Format
}

// suffixRules is ordered: compound suffixes like ".tar.gz" must be
// matched before their bare codec suffix ".gz". Office and packaging
// formats that are zip containers in disguise map to FormatZip.
var suffixRules = []suffixRule{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.bz2", FormatTarBz2},
	{".tbz2", FormatTarBz2},
	{".tbz", FormatTarBz2},
	{".tar.xz", FormatTarXz},
	{".txz", FormatTarXz},
	{".tar.zst", FormatTarZst},
	{".tzst", FormatTarZst},
	{".tar", FormatTar},
	{".zip", FormatZip},
	{".jar", FormatZip},
	{".war", FormatZip},
	{".ear", FormatZip},
	{".apk", FormatZip},
	{".docx", FormatZip},
	{".xlsx", FormatZip},
	{".pptx", FormatZip},
	{".odt", FormatZip},
	{".ods", FormatZip},
	{".odp", FormatZip},
	{".gz", FormatGz},
	{".bz2", FormatBz2},
	{".xz", FormatXz},
	{".zst", FormatZst},
	{".zstd", FormatZst},
	{".7z", FormatSevenZip},
	{".rar", FormatRar},
	{".cab", FormatCab},
	{".arj", FormatArj},
	{".lzh", FormatLzh},
	{".lha", FormatLzh},
	{".ace", FormatAce},
}

// Detect maps a file name to its archive format by extension. Matching
// is case-insensitive and intentionally does not sniff file contents.
// The second return value is false when no suffix rule matches.
func Detect(path string) (Format, bool) {
	lower := strings.ToLower(path)
	for _, rule := range suffixRules {
		if strings.HasSuffix(lower, rule.suffix) {
			return rule.format, true
		}
	}
	return "", false
}

func (f Format) String() string {
	return string(f)
}
