package transport

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncoding is used for text streams that do not name an encoding.
const DefaultEncoding = "utf-8"

// Common spellings that neither the IANA registry nor the WHATWG label set
// resolve the way users of CSV tooling expect.
var encodingAliases = map[string]string{
	"utf8":    "utf-8",
	"latin-1": "iso-8859-1",
	"latin1":  "iso-8859-1",
	"l1":      "iso-8859-1",
	"cp1252":  "windows-1252",
	"cp1250":  "windows-1250",
	"cp1251":  "windows-1251",
	"cp437":   "ibm437",
	"cp850":   "ibm850",
}

// LookupEncoding resolves a text encoding name such as "utf-8", "latin-1",
// or "windows-1252". Names are matched case-insensitively and '_' is treated
// as '-'. The empty name resolves to UTF-8.
//
// UTF-8 resolves to encoding.Nop: bytes pass through the stream unchanged.
func LookupEncoding(name string) (encoding.Encoding, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		key = DefaultEncoding
	}
	if alias, ok := encodingAliases[key]; ok {
		key = alias
	}
	if key == "utf-8" {
		return encoding.Nop, nil
	}

	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := htmlindex.Get(key); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

func isPassthrough(enc encoding.Encoding) bool {
	return enc == nil || enc == encoding.Nop
}
