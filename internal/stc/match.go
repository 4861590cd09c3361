package stc

import "strings"

// MatchesPattern reports whether cs satisfies an allow-list pattern string
// (§4.8's coordinate-system allow-list). A pattern is itself a coordinate
// system string, except each of its three fields may instead be the
// literal wildcard "*", which matches any value in that field of cs; per
// §9's design note this is three independent positional field comparisons,
// never a regex over the whole string.
func MatchesPattern(cs CoordSys, pattern string) bool {
	pf, pr, pl := parsePatternFields(pattern)
	return fieldMatches(pf, string(cs.Frame)) &&
		fieldMatches(pr, string(cs.RefPos)) &&
		fieldMatches(pl, string(cs.Flavor))
}

func fieldMatches(pattern, actual string) bool {
	if pattern == "*" {
		return true
	}
	if strings.EqualFold(pattern, "UNKNOWN*") {
		return strings.HasPrefix(strings.ToUpper(actual), "UNKNOWN")
	}
	return strings.EqualFold(pattern, actual)
}

// parsePatternFields tokenizes an allow-list pattern into its three
// positional fields, defaulting any missing trailing field to "*"
// (match-anything). It deliberately does not validate each field against
// the Frame/RefPos/Flavor vocabulary, since "*" and "UNKNOWN*" are not
// themselves vocabulary words.
func parsePatternFields(pattern string) (frame, refpos, flavor string) {
	toks := tokenizeWords(pattern)
	fields := []string{"*", "*", "*"}
	for i, t := range toks {
		if i >= 3 {
			break
		}
		fields[i] = t.text
	}
	return fields[0], fields[1], fields[2]
}
