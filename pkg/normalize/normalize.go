// Package normalize maps free-text identifiers from spreadsheet exports to
// canonical comparison keys. Every function is pure and total: empty input
// yields "", and applying a normalizer to its own output returns the output
// unchanged.
//
// Station codes have two variants. Station strips leading zeros only when the
// whole remainder is numeric ("010" -> "10", "CA008" -> "ca008").
// CanonicalStation additionally strips zeros inside every digit run
// ("CA008" -> "ca8"). Default() indexes on the first; Canonical() and
// CanonicalID use the second.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer maps a raw value to a comparison key.
type Normalizer func(string) string

// maxPasses bounds the fixpoint loop; each pass either shortens the key or
// leaves it unchanged, so real input settles in one or two.
const maxPasses = 8

var (
	stationPrefix = regexp.MustCompile(`^(station|cell|op|st)([\s._-]*)`)
	assetPrefix   = regexp.MustCompile(`^(robot|device|gun|tool)([\s._-]*)`)
	digitRun      = regexp.MustCompile(`\d+`)
)

// Key folds s to NFKC, lowercases it, trims it and removes every separator
// ('-', '_', '.', whitespace). It is the base of every other normalizer.
func Key(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSeparator(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Station normalizes a station code: strips a leading op/station/st/cell
// role word, removes separators and, if what remains is purely numeric,
// strips leading zeros while keeping a lone "0".
func Station(code string) string {
	return fixpoint(code, stationPass)
}

// CanonicalStation is Station plus zero-stripping of every digit run inside
// mixed tokens, so "CA008" and "CA8" agree.
func CanonicalStation(code string) string {
	return fixpoint(code, func(s string) string {
		return stripDigitRuns(stationPass(s))
	})
}

// Area lowercases, trims and removes separators from an area name.
func Area(name string) string {
	return Key(name)
}

// Line normalizes a line code.
func Line(code string) string {
	return Key(code)
}

// AssetName normalizes a robot or tool name, stripping a leading
// robot/device/gun/tool role word.
func AssetName(name string) string {
	return fixpoint(name, func(s string) string {
		return Key(stripRoleWord(prepare(s), assetPrefix))
	})
}

// CanonicalKey is Key with zero-stripping of every digit run. It suits
// free-form identifiers that carry no role word.
func CanonicalKey(s string) string {
	return stripDigitRuns(Key(s))
}

func stationPass(s string) string {
	s = Key(stripRoleWord(prepare(s), stationPrefix))
	if isDigits(s) {
		s = trimZeros(s)
	}
	return s
}

// prepare lowercases, folds and trims leading separators so the role word
// sits at the start of the string.
func prepare(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.TrimLeftFunc(s, isSeparator)
}

// stripRoleWord removes repeated role-word prefixes that are followed by a
// separator or a digit. "stamping" keeps its "st". A bare role word ("OP",
// "Station -") names no station and yields "".
func stripRoleWord(s string, prefix *regexp.Regexp) string {
	for {
		loc := prefix.FindStringSubmatchIndex(s)
		if loc == nil {
			return s
		}
		rest := strings.TrimRightFunc(s[loc[1]:], isSeparator)
		if rest == "" {
			return ""
		}
		hadSeparator := loc[5] > loc[4]
		if !hadSeparator && !startsWithDigit(rest) {
			return s
		}
		s = rest
	}
}

func stripDigitRuns(s string) string {
	return digitRun.ReplaceAllStringFunc(s, trimZeros)
}

func trimZeros(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func fixpoint(s string, pass Normalizer) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	out := pass(s)
	for i := 0; i < maxPasses; i++ {
		next := pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// Names reports whether two names carry the same words regardless of order,
// case, punctuation and spacing. Empty names never match.
func Names(a, b string) bool {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

func tokens(s string) []string {
	s = strings.ToLower(norm.NFKC.String(s))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(fields)
	return fields
}
