// Package naming extracts the title and release year from library folder
// names and detects release group tags and remux releases.
//
// Folder names follow the convention "Title (Year) [details]". The parser is
// pluggable through NameParser so other conventions can be added without
// touching reconciliation.
package naming

import (
	"fmt"
	"strconv"
	"strings"

	"movielog/internal/movieerr"
)

// DefaultPrefixLen is the number of characters skipped before the title when
// no prefix length is configured, matching a drive prefix such as "D:/".
const DefaultPrefixLen = 3

// NameParser extracts a title and year from a name.
type NameParser interface {
	Parse(name string) (title string, year int16, err error)
}

// ConventionParser implements the "<prefix>Title (Year) [...]" convention.
// The first PrefixLen characters are skipped unread, so a prefix may itself
// contain parentheses. The title runs from PrefixLen up to the character
// before the first "(" after the prefix, and the year is the integer between
// that "(" and the first ")" after the prefix.
type ConventionParser struct {
	PrefixLen int
}

// NewConventionParser returns a parser that skips prefixLen characters, or
// DefaultPrefixLen when prefixLen is not positive.
func NewConventionParser(prefixLen int) ConventionParser {
	if prefixLen <= 0 {
		prefixLen = DefaultPrefixLen
	}
	return ConventionParser{PrefixLen: prefixLen}
}

// Parse implements NameParser.
func (p ConventionParser) Parse(name string) (string, int16, error) {
	if p.PrefixLen < 0 || p.PrefixLen > len(name) {
		return "", 0, malformed(name, fmt.Sprintf("prefix of %d characters overruns the name", p.PrefixLen))
	}
	rest := name[p.PrefixLen:]
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return "", 0, malformed(name, "missing \"(\"")
	}
	closing := strings.IndexByte(rest, ')')
	if closing < 0 {
		return "", 0, malformed(name, "missing \")\"")
	}
	if closing < open {
		return "", 0, malformed(name, "\")\" before \"(\"")
	}
	end := open - 1
	if end < 0 {
		return "", 0, malformed(name, fmt.Sprintf("prefix of %d characters overruns the title", p.PrefixLen))
	}
	year, err := strconv.ParseInt(rest[open+1:closing], 10, 16)
	if err != nil {
		return "", 0, movieerr.Wrap(movieerr.ErrMalformedName, "naming", "year", name, err)
	}
	return rest[:end], int16(year), nil
}

func malformed(name, reason string) error {
	return movieerr.Wrap(movieerr.ErrMalformedName, "naming", reason, name, nil)
}

// EncoderTag returns the first tag from tags that occurs in name. Matching is
// case-sensitive and follows the order of tags.
func EncoderTag(name string, tags []string) (string, bool) {
	for _, tag := range tags {
		if tag != "" && strings.Contains(name, tag) {
			return tag, true
		}
	}
	return "", false
}

// IsRemux reports whether name mentions "remux" in any letter case.
func IsRemux(name string) bool {
	return strings.Contains(strings.ToLower(name), "remux")
}
