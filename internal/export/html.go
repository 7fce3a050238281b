package export

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/khrees2412/jobapplier/pkg/models"
)

var letterTemplate = template.Must(template.New("letter").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; font-size: 11pt; line-height: 1.5; margin: 2.5cm; }
p { margin: 0 0 1em 0; white-space: pre-wrap; }
</style>
</head>
<body>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body>
</html>
`))

type letterPage struct {
	Lang       string
	Title      string
	Paragraphs []string
}

// LetterHTML lays out a letter as a printable HTML page, one <p> per
// blank-line separated paragraph.
func LetterHTML(rec models.ApplicationRecord, letter string) (string, error) {
	page := letterPage{
		Lang:  strings.ToLower(string(rec.Language)),
		Title: strings.TrimSpace(rec.JobTitle + " " + rec.Company),
	}
	for _, p := range strings.Split(strings.ReplaceAll(letter, "\r\n", "\n"), "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			page.Paragraphs = append(page.Paragraphs, p)
		}
	}

	var buf bytes.Buffer
	if err := letterTemplate.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}
