package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pfrederiksen/ugl-courses/internal/course"
)

// Table renders rows under headers as a bordered plain-text table.
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}

func renderText(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hej %s,\n\n", s.Name)
	b.WriteString("Här är de UGL-kurser du visat intresse för:\n\n")
	b.WriteString(Table(s.Columns, s.Rows))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Totalt: %s\n", course.FormatAmount(s.TotalAmount))

	for _, rec := range s.Records {
		if rec.URL == "" && rec.MapsURL == "" {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%s)\n", rec.Venue, rec.Dates)
		if rec.URL != "" {
			fmt.Fprintf(&b, "  Bokning: %s\n", rec.URL)
		}
		if rec.MapsURL != "" {
			fmt.Fprintf(&b, "  Karta: %s\n", rec.MapsURL)
		}
	}

	if s.Phone != "" {
		fmt.Fprintf(&b, "\nTelefon: %s\n", s.Phone)
	}
	fmt.Fprintf(&b, "\nReferens: %s\n", s.RequestID)
	return b.String()
}

var htmlTemplate = template.Must(template.New("summary").Funcs(sprig.FuncMap()).Parse(`<html>
<body>
<h2>Hej {{ .Name }},</h2>
<p>Här är de UGL-kurser du visat intresse för:</p>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse: collapse;">
  <tr style="background-color:#f2f2f2;">
    <th>Vecka</th><th>Datum</th><th>Plats</th><th>Ort</th><th>Handledare</th><th>Pris</th><th>Platser</th><th>Källa</th><th>Hemsida</th><th>Karta</th>
  </tr>
{{- range .Records }}
  <tr>
    <td>{{ .WeekText | default "–" }}</td>
    <td>{{ .Dates.String }}</td>
    <td>{{ .Venue }}</td>
    <td>{{ .Location | default "–" }}</td>
    <td>{{ .InstructorText | default "–" }}</td>
    <td>{{ .Price.String | default "–" }}</td>
    <td>{{ .Seats.String | default "–" }}</td>
    <td>{{ .Source }}</td>
    <td>{{ if .URL }}<a href="{{ .URL }}">Webbplats</a>{{ end }}</td>
    <td>{{ if .MapsURL }}<a href="{{ .MapsURL }}">Karta</a>{{ end }}</td>
  </tr>
{{- end }}
</table>
<p><strong>Totalt: {{ .Total }}</strong> ({{ len .Records }} {{ if eq (len .Records) 1 }}kurs{{ else }}kurser{{ end }})</p>
{{- with .Phone }}
<p>Telefon: {{ . }}</p>
{{- end }}
<p>Hör gärna av dig om du har frågor eller vill boka.</p>
<p style="color:#888;font-size:small;">Referens: {{ .RequestID | upper }}</p>
</body>
</html>
`))

func renderHTML(s *Summary) (string, error) {
	data := struct {
		*Summary
		Total string
	}{s, course.FormatAmount(s.TotalAmount)}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
