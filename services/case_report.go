package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"socialcare365/models"
	"strings"
	"time"
)

var caseReportTemplate = template.Must(template.New("case_report").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return "Not recorded"
		}
		return t.Format("2 January 2006")
	},
	"join": strings.Join,
	"kb": func(size int64) string {
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Case.CaseID}}</title>
<style>
body { font-family: Arial, Helvetica, sans-serif; font-size: 11pt; color: #222; }
h1 { font-size: 18pt; margin-bottom: 4px; }
h2 { font-size: 13pt; border-bottom: 1px solid #ccc; padding-bottom: 2px; margin-top: 18px; }
table { border-collapse: collapse; width: 100%; }
td { padding: 3px 6px; vertical-align: top; }
td.label { width: 30%; font-weight: bold; }
.comment { margin-bottom: 8px; }
.meta { color: #666; font-size: 9pt; }
</style>
</head>
<body>
<h1>{{.Case.ClientFullName}}</h1>
<div class="meta">{{.Case.CaseID}} &middot; generated {{.GeneratedAt}}{{if .Case.Archived}} &middot; ARCHIVED{{end}}</div>

<h2>Case details</h2>
<table>
<tr><td class="label">Date of birth</td><td>{{date .Case.DateOfBirth}}</td></tr>
<tr><td class="label">Client reference</td><td>{{.Case.ClientReferenceNumber}}</td></tr>
<tr><td class="label">Case type</td><td>{{.Case.CaseType}}</td></tr>
<tr><td class="label">Status</td><td>{{.Case.CaseStatus}}</td></tr>
<tr><td class="label">Priority</td><td>{{.Case.PriorityLevel}}</td></tr>
<tr><td class="label">Assigned social workers</td><td>{{join .Case.AssignedSocialWorkers ", "}}</td></tr>
</table>
{{if .Case.Description}}<p>{{.Case.Description}}</p>{{end}}

<h2>Safeguarding</h2>
<table>
<tr><td class="label">Risk level</td><td>{{.Case.RiskLevel}}</td></tr>
<tr><td class="label">Concerns</td><td>{{.Case.SafeguardingConcerns}}</td></tr>
<tr><td class="label">Notes</td><td>{{.Case.SafeguardingNotes}}</td></tr>
</table>

<h2>Meetings</h2>
<table>
<tr><td class="label">Last meeting</td><td>{{date .Case.LastMeetingDate}}</td></tr>
<tr><td class="label">Meeting notes</td><td>{{.Case.MeetingNotes}}</td></tr>
<tr><td class="label">Next steps</td><td>{{.Case.NextSteps}}</td></tr>
</table>

{{if .Case.Attachments}}
<h2>Attachments</h2>
<ul>
{{range .Case.Attachments}}<li>{{.OriginalName}} ({{kb .Size}})</li>
{{end}}
</ul>
{{end}}

{{if .Comments}}
<h2>Comments</h2>
{{range .Comments}}<div class="comment"><div class="meta">{{.AuthorName}}, {{.CreatedAt.Format "2 Jan 2006 15:04"}}</div>{{.Text}}</div>
{{end}}
{{end}}
</body>
</html>`))

// BuildCaseReportHTML renders the printable summary of a case
func BuildCaseReportHTML(c *models.Case, comments []models.CaseComment, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := caseReportTemplate.Execute(&buf, struct {
		Case        *models.Case
		Comments    []models.CaseComment
		GeneratedAt string
	}{c, comments, generatedAt.Format("2 January 2006 15:04")})
	if err != nil {
		return "", fmt.Errorf("failed to render case report: %w", err)
	}
	return buf.String(), nil
}

// GenerateCaseReportPDF renders the case summary of a case p may read to PDF
func GenerateCaseReportPDF(ctx context.Context, c *models.Case, comments []models.CaseComment) ([]byte, error) {
	html, err := BuildCaseReportHTML(c, comments, time.Now())
	if err != nil {
		return nil, err
	}
	return GeneratePDF(ctx, html, DefaultPDFOptions())
}
