package clinical

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractDiagnoses(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "diagnosis section",
			text: "DIAGNOSIS:\n- Viral Fever\n- Influenza\n* Dengue\nReasons:\nHigh fever for three days\nTreatment plan:\nRest",
			want: []string{"Viral Fever", "Influenza", "Dengue"},
		},
		{
			name: "numbered list",
			text: "1. Common cold\n2. Allergic rhinitis\n3. Flu",
			want: []string{"Common cold", "Allergic rhinitis"},
		},
		{
			name: "falls back to short lines",
			text: "Flu\nCold",
			want: []string{"Flu", "Cold"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ExtractDiagnoses(c.text)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDiagnosisOptionsAppendsOther(t *testing.T) {
	got := DiagnosisOptions("DIAGNOSIS:\n- Migraine headache\nReasons:\n...")
	want := []string{"Migraine headache", OtherOption}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if DiagnosisOptions("") != nil {
		t.Fatal("expected no options for empty text")
	}
}

func TestComposeDiagnosis(t *testing.T) {
	got := ComposeDiagnosis([]string{"Viral Fever", OtherOption}, "Check CBC", "original")
	want := "Selected Diagnoses:\n• Viral Fever\n\nAdditional Notes:\nCheck CBC"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	if got := ComposeDiagnosis([]string{OtherOption}, "  ", "original"); got != "original" {
		t.Fatalf("expected original text, got %q", got)
	}
}

func TestParseMedicationsTable(t *testing.T) {
	text := "Here is the prescription:\n\n" +
		"| Name | Dosage | Duration | Side-effects |\n" +
		"|------|--------|----------|--------------|\n" +
		"| Panadol | 500mg | 5 days | Nausea |\n" +
		"| Augmentin | 625mg | 7 days | Diarrhea |\n\n" +
		"Take rest."

	got := ParseMedications(text)
	want := []Medication{
		{Medication: "Panadol", Dosage: "500mg", Duration: "5 days", SideEffects: "Nausea"},
		{Medication: "Augmentin", Dosage: "625mg", Duration: "7 days", SideEffects: "Diarrhea"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseMedicationsTableWithFrequency(t *testing.T) {
	text := "| Medication | Dosage | Frequency | Duration | Side Effects |\n" +
		"| --- | --- | --- | --- | --- |\n" +
		"| Brufen | 400mg | Twice daily | 3 days | Gastric upset |\n"

	got := ParseMedications(text)
	want := []Medication{
		{Medication: "Brufen", Dosage: "400mg", Frequency: "Twice daily", Duration: "3 days", SideEffects: "Gastric upset"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseMedicationsLines(t *testing.T) {
	text := "1. Paracetamol - 500mg - twice daily - 5 days - drowsiness\nNotes: take with food\n\nok"

	got := ParseMedications(text)
	want := []Medication{
		{Medication: "Paracetamol", Dosage: "500mg", Frequency: "twice daily", Duration: "5 days", SideEffects: "drowsiness"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseMedicationsNeverEmpty(t *testing.T) {
	got := ParseMedications("")
	if len(got) != 1 || got[0] != (Medication{}) {
		t.Fatalf("expected a single blank row, got %+v", got)
	}
}

func TestFormatAndSplitPrescription(t *testing.T) {
	meds := []Medication{
		{Medication: "Paracetamol", Dosage: "500mg", Frequency: "twice daily", Duration: "5 days", SideEffects: "drowsiness"},
		{},
		{Medication: "Ibuprofen", Dosage: "400mg"},
	}
	text := FormatPrescription(meds, "Drink water")

	want := "PRESCRIPTION:\n\n" +
		"• Paracetamol - 500mg - twice daily - 5 days (Side effects: drowsiness)\n" +
		"• Ibuprofen - 400mg\n" +
		"\nADDITIONAL INSTRUCTIONS:\nDrink water\n"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}

	sp, ok := SplitFinalPrescription(text)
	if !ok {
		t.Fatal("expected structured prescription")
	}
	if len(sp.Medications) != 2 || !strings.HasPrefix(sp.Medications[1], "• Ibuprofen") {
		t.Fatalf("unexpected medications: %q", sp.Medications)
	}
	if sp.Instructions != "Drink water" {
		t.Fatalf("unexpected instructions: %q", sp.Instructions)
	}

	if _, ok := SplitFinalPrescription("Take paracetamol as needed"); ok {
		t.Fatal("plain text should not be structured")
	}
}

func TestCleanText(t *testing.T) {
	got := CleanText("• Take “two” tablets – daily… café 药")
	want := "- Take \"two\" tablets - daily... café ?"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	for _, r := range CleanText("مرحبا — ok") {
		if r > 0xFF {
			t.Fatalf("rune %U left in output", r)
		}
	}
}

func TestExtractTests(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "bullets under heading",
			text: "DIAGNOSIS:\n- Pneumonia\nRecommended tests:\n- CBC\n- Chest X-ray\n\nFollow up in a week.",
			want: []string{"CBC", "Chest X-ray"},
		},
		{
			name: "inline list",
			text: "Tests: CBC, LFT; Urinalysis",
			want: []string{"CBC", "LFT", "Urinalysis"},
		},
		{
			name: "markdown heading",
			text: "**Recommended Tests:**\n1. Blood culture\n2) Widal test",
			want: []string{"Blood culture", "Widal test"},
		},
		{
			name: "none",
			text: "Rest and fluids.",
			want: nil,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ExtractTests(c.text); !reflect.DeepEqual(got, c.want) {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}
