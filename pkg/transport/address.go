package transport

import "strings"

// Separator is the path separator used on the wire.
const Separator = `\`

// Address identifies a file or directory on a remote share.
//
// Path is relative to the share root and never starts or ends with a
// separator. The zero Path addresses the share root.
type Address struct {
	Server string
	Share  string
	Path   string
}

// Resolve builds the canonical Address for the given path segments.
//
// Each segment may itself contain '/' or '\' separators. Empty components are
// dropped, so leading, trailing, and doubled separators never reach the
// resulting path. Zero segments resolve to the share root.
func Resolve(server, share string, segments ...string) Address {
	var parts []string
	for _, seg := range segments {
		parts = append(parts, strings.FieldsFunc(seg, isSeparator)...)
	}
	return Address{
		Server: strings.Trim(server, `\/`),
		Share:  strings.Trim(share, `\/`),
		Path:   strings.Join(parts, Separator),
	}
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}

// Join resolves segments relative to a.
func (a Address) Join(segments ...string) Address {
	return Resolve(a.Server, a.Share, append([]string{a.Path}, segments...)...)
}

// IsRoot reports whether a addresses the share root.
func (a Address) IsRoot() bool {
	return a.Path == ""
}

// Name returns the last path component, or the share name for the root.
func (a Address) Name() string {
	if a.Path == "" {
		return a.Share
	}
	if i := strings.LastIndex(a.Path, Separator); i >= 0 {
		return a.Path[i+1:]
	}
	return a.Path
}

// UNC renders the address as \\server\share\path.
func (a Address) UNC() string {
	var b strings.Builder
	b.Grow(len(a.Server) + len(a.Share) + len(a.Path) + 4)
	b.WriteString(`\\`)
	b.WriteString(a.Server)
	b.WriteString(Separator)
	b.WriteString(a.Share)
	if a.Path != "" {
		b.WriteString(Separator)
		b.WriteString(a.Path)
	}
	return b.String()
}

func (a Address) String() string {
	return a.UNC()
}
