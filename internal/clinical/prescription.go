package clinical

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Medication is one editable prescription row.
type Medication struct {
	Medication  string `json:"medication"`
	Dosage      string `json:"dosage"`
	Frequency   string `json:"frequency"`
	Duration    string `json:"duration"`
	SideEffects string `json:"sideEffects"`
}

var (
	tableSeparator = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)+\|?$`)
	leadingMarker  = regexp.MustCompile(`^[\s•\-*\d.]+`)
	partSplitter   = regexp.MustCompile(`[-,:]`)
	blankLines     = regexp.MustCompile(`\n+`)
)

// ParseMedications turns an LLM prescription into editable rows. A markdown
// table is read by its header when one is present; otherwise each line is
// split on '-', ',' and ':' into name, dosage, frequency, duration and side
// effects. The result always has at least one (possibly blank) row.
func ParseMedications(text string) []Medication {
	meds := parseTable(text)
	if len(meds) == 0 {
		meds = parseLines(text)
	}
	if len(meds) == 0 {
		meds = []Medication{{}}
	}
	return meds
}

func splitRow(line string) []string {
	line = strings.Trim(strings.TrimSpace(line), "|")
	cols := strings.Split(line, "|")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

type columnMap struct {
	medication, dosage, frequency, duration, sideEffects int
}

// positional layout used when the table has no recognisable header
var defaultColumns = columnMap{medication: 0, dosage: 1, frequency: -1, duration: 2, sideEffects: 3}

func mapHeader(header []string) (columnMap, bool) {
	m := columnMap{-1, -1, -1, -1, -1}
	for i, h := range header {
		h = strings.ToLower(h)
		switch {
		case strings.Contains(h, "side"):
			m.sideEffects = i
		case strings.Contains(h, "dos"):
			m.dosage = i
		case strings.Contains(h, "freq"):
			m.frequency = i
		case strings.Contains(h, "duration"):
			m.duration = i
		case strings.Contains(h, "name"), strings.Contains(h, "medic"), strings.Contains(h, "drug"):
			if m.medication < 0 {
				m.medication = i
			}
		}
	}
	return m, m.medication >= 0
}

func parseTable(text string) []Medication {
	if !strings.Contains(text, "|") {
		return nil
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")

	sep := -1
	for i, line := range lines {
		if tableSeparator.MatchString(strings.TrimSpace(line)) {
			sep = i
			break
		}
	}
	if sep < 0 {
		return nil
	}

	cols := defaultColumns
	if sep > 0 && strings.HasPrefix(strings.TrimSpace(lines[sep-1]), "|") {
		if m, ok := mapHeader(splitRow(lines[sep-1])); ok {
			cols = m
		}
	}

	pick := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var meds []Medication
	for _, line := range lines[sep+1:] {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || tableSeparator.MatchString(line) {
			continue
		}
		row := splitRow(line)
		if len(row) < 4 {
			continue
		}
		meds = append(meds, Medication{
			Medication:  pick(row, cols.medication),
			Dosage:      pick(row, cols.dosage),
			Frequency:   pick(row, cols.frequency),
			Duration:    pick(row, cols.duration),
			SideEffects: pick(row, cols.sideEffects),
		})
	}
	return meds
}

func parseLines(text string) []Medication {
	var meds []Medication
	for _, line := range blankLines.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned := strings.TrimSpace(leadingMarker.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(cleaned) < 5 || strings.Contains(prefixRunes(cleaned, 15), ":") {
			continue
		}

		parts := partSplitter.Split(cleaned, 5)
		part := func(i int) string {
			if i < len(parts) {
				return strings.TrimSpace(parts[i])
			}
			return ""
		}
		meds = append(meds, Medication{
			Medication:  part(0),
			Dosage:      part(1),
			Frequency:   part(2),
			Duration:    part(3),
			SideEffects: part(4),
		})
	}
	return meds
}

func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// FormatPrescription renders the edited rows as the final prescription text:
//
//	PRESCRIPTION:
//
//	• name - dosage - frequency - duration (Side effects: ...)
//
//	ADDITIONAL INSTRUCTIONS:
//	...
//
// Rows without a medication name are skipped.
func FormatPrescription(meds []Medication, instructions string) string {
	var b strings.Builder
	b.WriteString("PRESCRIPTION:\n\n")
	for _, m := range meds {
		if strings.TrimSpace(m.Medication) == "" {
			continue
		}
		b.WriteString("• " + m.Medication)
		for _, field := range []string{m.Dosage, m.Frequency, m.Duration} {
			if strings.TrimSpace(field) != "" {
				b.WriteString(" - " + field)
			}
		}
		if strings.TrimSpace(m.SideEffects) != "" {
			b.WriteString(" (Side effects: " + m.SideEffects + ")")
		}
		b.WriteString("\n")
	}
	if strings.TrimSpace(instructions) != "" {
		b.WriteString("\nADDITIONAL INSTRUCTIONS:\n" + instructions + "\n")
	}
	return b.String()
}

// StructuredPrescription is a final prescription split back into its parts.
type StructuredPrescription struct {
	Medications  []string
	Instructions string
}

// SplitFinalPrescription reverses FormatPrescription. ok is false when the
// text is not in that layout and should be shown verbatim.
func SplitFinalPrescription(text string) (sp StructuredPrescription, ok bool) {
	if !strings.Contains(text, "PRESCRIPTION:") || !strings.Contains(text, "• ") {
		return sp, false
	}

	var readingMeds, readingInstructions bool
	var instructions strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.Contains(line, "ADDITIONAL INSTRUCTIONS:"):
			readingMeds = false
			readingInstructions = true
			continue
		case strings.Contains(line, "PRESCRIPTION:"):
			readingMeds = true
			continue
		}
		if readingMeds && strings.HasPrefix(trimmed, "• ") {
			sp.Medications = append(sp.Medications, trimmed)
		}
		if readingInstructions && trimmed != "" {
			instructions.WriteString(line + "\n")
		}
	}
	sp.Instructions = strings.TrimSpace(instructions.String())
	return sp, true
}
