package bot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// FixEncoding repairs text sent by clients that still use Windows-1252.
// Valid UTF-8 is returned untouched.
func FixEncoding(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	fixed, err := charmap.Windows1252.NewDecoder().String(s)
	if err == nil && utf8.ValidString(fixed) {
		return fixed
	}
	return strings.ToValidUTF8(s, "")
}

// SanitizeInput collapses every run of whitespace into a single space.
func SanitizeInput(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseCommand splits "/calc@JurosJustosBot a b" into "/calc" and its
// arguments.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(SanitizeInput(text))
	if len(fields) == 0 {
		return "", nil
	}
	cmd := strings.ToLower(fields[0])
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return cmd, fields[1:]
}
