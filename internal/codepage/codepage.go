// Package codepage resolves the single-byte Windows ANSI code page used
// by a VSS database for short names, long names, and comment text.
package codepage

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// MBCS is the alias the original VSS client used for "current Windows
// ANSI code page". Portable builds must resolve it to a concrete,
// numbered code page instead of querying the host.
const MBCS = "mbcs"

// UTF8 is accepted so that test fixtures can be written by hand without
// worrying about code page quoting.
const UTF8 = "utf-8"

var byName = map[string]encoding.Encoding{
	"1252": charmap.Windows1252,
	"1250": charmap.Windows1250,
	"1251": charmap.Windows1251,
	"1253": charmap.Windows1253,
	"1254": charmap.Windows1254,
	"1257": charmap.Windows1257,
}

// Resolve maps a code page name (a numeric Windows code page, "mbcs",
// or "utf-8") to a concrete encoding. "mbcs" resolves to 1252: Windows
// SourceSafe's installed base is overwhelmingly Western European, and
// pinning it keeps fixture-based tests deterministic across hosts.
func Resolve(name string) (encoding.Encoding, error) {
	switch name {
	case "", MBCS:
		return charmap.Windows1252, nil
	case UTF8:
		return nil, nil // nil signals "decode as UTF-8" to callers
	}
	if enc, ok := byName[name]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("codepage: unsupported code page %q", name)
}
