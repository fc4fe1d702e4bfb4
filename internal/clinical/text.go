package clinical

import (
	"regexp"
	"strings"
)

// CommonSymptoms is the checklist offered before free-text symptoms.
var CommonSymptoms = []string{
	"Fever", "Headache", "Cough", "Sore Throat", "Fatigue",
	"Nausea", "Vomiting", "Diarrhea", "Abdominal Pain", "Chest Pain",
	"Shortness of Breath", "Dizziness", "Rash", "Joint Pain", "Back Pain",
	"Sweating", "Chills",
}

var latin1Replacer = strings.NewReplacer(
	"•", "-",
	"–", "-",
	"—", "-",
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"…", "...",
)

// CleanText maps typographic punctuation to ASCII and replaces every other
// rune outside Latin-1 with '?', so it can be drawn with the core PDF fonts.
func CleanText(text string) string {
	text = latin1Replacer.Replace(text)
	return strings.Map(func(r rune) rune {
		if r > 0xFF {
			return '?'
		}
		return r
	}, text)
}

var (
	testsHeading = regexp.MustCompile(`(?i)^[#*\s]*(?:recommended\s+)?(?:lab(?:oratory)?\s+|diagnostic\s+)?(?:tests?|investigations)[*\s]*(?::[*\s]*(.*))?$`)
	listItem     = regexp.MustCompile(`^(?:[•\-*]|\d+[.)])\s*`)
	inlineSplit  = regexp.MustCompile(`[,;]`)
)

// ExtractTests returns the items listed under a "Recommended tests" style
// heading, either as bullets on the following lines or inline after the colon.
func ExtractTests(text string) []string {
	var tests []string
	inSection := false

	add := func(item string) {
		item = strings.Trim(strings.TrimSpace(item), "*")
		item = strings.TrimSpace(item)
		if item != "" {
			tests = append(tests, item)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := testsHeading.FindStringSubmatch(trimmed); m != nil {
			inSection = true
			for _, item := range inlineSplit.Split(m[1], -1) {
				add(item)
			}
			continue
		}
		if !inSection {
			continue
		}
		if trimmed == "" {
			continue
		}
		if loc := listItem.FindStringIndex(trimmed); loc != nil {
			add(trimmed[loc[1]:])
			continue
		}
		inSection = false
	}
	return tests
}
