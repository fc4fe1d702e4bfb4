package documents

import (
	"bytes"
	"html/template"
)

var prescriptionTemplate = template.Must(template.New("prescription").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Medical Prescription</title>
<style>
body { font-family: Arial, "Noto Nastaliq Urdu", sans-serif; margin: 40px; font-size: 12pt; }
h1 { text-align: center; font-size: 16pt; }
h2 { font-size: 14pt; margin-top: 24px; }
.text { white-space: pre-wrap; }
.meta p { margin: 4px 0; }
</style>
</head>
<body>
<h1>Medical Prescription</h1>
<div class="meta">
<p>Patient: {{.Doc.PatientName}}</p>
<p>Age: {{.Doc.Age}}</p>
<p>Gender: {{.Doc.Gender}}</p>
<p>Date: {{.Date}}</p>
{{- if .Doc.DoctorName}}
<p>Doctor: {{.Doc.DoctorName}}</p>
{{- end}}
</div>
<h2>Diagnosis:</h2>
<div class="text">{{.Doc.Diagnosis}}</div>
<h2>Prescription:</h2>
{{- if .Structured}}
<ul>
{{- range .Meds}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- if .Instructions}}
<h2>Additional Instructions:</h2>
<div class="text">{{.Instructions}}</div>
{{- end}}
{{- else}}
<div class="text">{{.Doc.Prescription}}</div>
{{- end}}
{{- if .Doc.Tests}}
<h2>Recommended Tests:</h2>
<ul>
{{- range .Doc.Tests}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
{{- if .Doc.Referrals}}
<h2>Referrals:</h2>
<ul>
{{- range .Doc.Referrals}}
<li>{{.SpecialistName}} ({{.Category}}, {{.Hospital}}){{if .Reason}}: {{.Reason}}{{end}}</li>
{{- end}}
</ul>
{{- end}}
</body>
</html>
`))

type htmlView struct {
	Doc          Prescription
	Date         string
	Structured   bool
	Meds         []string
	Instructions string
}

func renderHTML(doc Prescription) ([]byte, error) {
	view := htmlView{Doc: doc, Date: formatDate(doc)}
	if sp, ok := doc.structured(); ok {
		view.Structured = true
		view.Meds = sp.Medications
		view.Instructions = sp.Instructions
	}
	var buf bytes.Buffer
	if err := prescriptionTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(doc Prescription) string {
	if doc.Date.IsZero() {
		return "N/A"
	}
	return doc.Date.Format("2006-01-02 15:04")
}
