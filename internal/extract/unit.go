package extract

import (
	"regexp"
	"strings"

	"docparser/internal/domain"
)

// standaloneLetter matches a magnitude letter that is not part of a word:
// preceded by start, whitespace or a digit and not followed by a letter.
func standaloneLetter(letter string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[\s\p{Zs}0-9])` + letter + `(?:$|[^a-z])`)
}

var (
	standaloneB = standaloneLetter("b")
	standaloneM = standaloneLetter("m")
	standaloneK = standaloneLetter("k")
)

// ResolveUnit infers the unit of a matched metric from its context span.
// Magnitude words win over percent and ratio cues.
func ResolveUnit(context string) domain.Unit {
	c := strings.ToLower(context)

	switch {
	case strings.Contains(c, "billion") || standaloneB.MatchString(c):
		return domain.UnitBillions
	case strings.Contains(c, "million") || standaloneM.MatchString(c):
		return domain.UnitMillions
	case strings.Contains(c, "thousand") || standaloneK.MatchString(c):
		return domain.UnitThousands
	case strings.Contains(c, "%") || strings.Contains(c, "percent"):
		return domain.UnitPercentage
	case strings.Contains(c, "ratio"):
		return domain.UnitRatio
	default:
		return domain.UnitUnits
	}
}
