package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// expansion rewrites an area abbreviation at the start of a name.
type expansion struct {
	pattern     *regexp.Regexp
	replacement string
}

// areaExpansions are applied in order; the first matching rule wins. The
// "RR UN" / "FR UN" forms precede the two-letter rules, which also match an
// abbreviation standing alone ("UB" once " - VIEW" is dropped).
var areaExpansions = []expansion{
	{regexp.MustCompile(`^RR\s*UN(?:IT)?\b`), "REAR UNIT"},
	{regexp.MustCompile(`^FR\s*UN(?:IT)?\b`), "FRONT UNIT"},
	{regexp.MustCompile(`^FU([\s\d]|$)`), "FRONT UNIT$1"},
	{regexp.MustCompile(`^RR([\s\d]|$)`), "REAR UNIT$1"},
	{regexp.MustCompile(`^UB([\s\d]|$)`), "UNDERBODY$1"},
	{regexp.MustCompile(`^SB([\s\d]|$)`), "SIDE BODY$1"},
	{regexp.MustCompile(`^MB([\s\d]|$)`), "MAIN BODY$1"},
}

// informationalSuffixes name a report, not a place. Any other " - X"
// suffix may be a distinct sub-zone and is kept.
var informationalSuffixes = map[string]bool{
	"SIMULATION": true,
	"STATUS":     true,
	"REPORT":     true,
	"DATA":       true,
	"EXPORT":     true,
	"VIEW":       true,
}

// CanonicalArea expands known area abbreviations, drops informational
// " - SUFFIX" noise and then applies Area.
//
//	CanonicalArea("RR UN 1")               == "rearunit1"
//	CanonicalArea("Underbody - Simulation") == "underbody"
//	CanonicalArea("Underbody - Cell B")     == "underbodycellb"
func CanonicalArea(name string) string {
	return fixpoint(name, canonicalAreaPass)
}

func canonicalAreaPass(name string) string {
	s := strings.ToUpper(strings.TrimSpace(norm.NFKC.String(name)))
	s = stripInformationalSuffix(s)
	for _, rule := range areaExpansions {
		if rule.pattern.MatchString(s) {
			s = rule.pattern.ReplaceAllString(s, rule.replacement)
			break
		}
	}
	return Area(s)
}

func stripInformationalSuffix(s string) string {
	for {
		idx := strings.LastIndex(s, " - ")
		if idx < 0 {
			return s
		}
		if !informationalSuffixes[strings.TrimSpace(s[idx+3:])] {
			return s
		}
		s = strings.TrimSpace(s[:idx])
	}
}

// CanonicalID is the cross-file identity of a station-scoped asset:
// kind|canonical area|canonical station. Two rows from different exports
// describe the same thing when their canonical ids are equal.
func CanonicalID(kind, area, station string) string {
	return strings.ToLower(strings.TrimSpace(kind)) + "|" + CanonicalArea(area) + "|" + CanonicalStation(station)
}
