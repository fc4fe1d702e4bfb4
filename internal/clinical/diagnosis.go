package clinical

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// OtherOption is appended to extracted diagnoses so the doctor can write
// their own.
const OtherOption = "Other (write below)"

const maxOptionLength = 100

var (
	sectionSplitter = regexp.MustCompile(`[\n•\-*]+`)
	freeSplitter    = regexp.MustCompile(`[\n•\-*\d+.]+`)
)

// ExtractDiagnoses pulls candidate diagnoses out of LLM free text.
//
// When the text follows the "DIAGNOSIS: ... Reasons:" layout only that section
// is used, split on newlines and bullets. Otherwise the whole text is split on
// newlines, bullets and list numbering, keeping short fragments. Entries of
// five characters or fewer are dropped. If nothing survives, every non-empty
// line shorter than 100 characters is returned.
func ExtractDiagnoses(text string) []string {
	var candidates []string

	if idx := strings.Index(text, "DIAGNOSIS:"); idx >= 0 {
		section := text[idx+len("DIAGNOSIS:"):]
		if end := strings.Index(section, "DIAGNOSIS:"); end >= 0 {
			section = section[:end]
		}
		if end := strings.Index(section, "Reasons:"); end >= 0 {
			section = section[:end]
		}
		for _, part := range sectionSplitter.Split(strings.TrimSpace(section), -1) {
			if part = strings.TrimSpace(part); part != "" {
				candidates = append(candidates, part)
			}
		}
	} else {
		for _, part := range freeSplitter.Split(text, -1) {
			part = strings.TrimSpace(part)
			if part != "" && utf8.RuneCountInString(part) < maxOptionLength {
				candidates = append(candidates, part)
			}
		}
	}

	var out []string
	for _, c := range candidates {
		if utf8.RuneCountInString(c) > 5 {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && utf8.RuneCountInString(line) < maxOptionLength {
			out = append(out, line)
		}
	}
	return out
}

// DiagnosisOptions is ExtractDiagnoses plus OtherOption, or nil when nothing
// could be extracted.
func DiagnosisOptions(text string) []string {
	options := ExtractDiagnoses(text)
	if len(options) == 0 {
		return nil
	}
	return append(options, OtherOption)
}

// ComposeDiagnosis builds the confirmed diagnosis from the options the doctor
// ticked and their free-text notes. OtherOption is ignored. When both are
// empty the original LLM text is kept.
func ComposeDiagnosis(selected []string, notes, original string) string {
	var b strings.Builder

	var picked []string
	for _, s := range selected {
		if s = strings.TrimSpace(s); s != "" && s != OtherOption {
			picked = append(picked, s)
		}
	}
	if len(picked) > 0 {
		b.WriteString("Selected Diagnoses:\n")
		for i, p := range picked {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• " + p)
		}
		b.WriteString("\n\n")
	}
	if strings.TrimSpace(notes) != "" {
		b.WriteString("Additional Notes:\n" + notes)
	}

	if strings.TrimSpace(b.String()) == "" {
		return original
	}
	return b.String()
}
