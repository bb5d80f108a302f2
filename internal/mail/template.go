package mail

import (
	"bytes"
	"html/template"
)

type detail struct {
	Label string
	Value string
}

// emailView is the data rendered by emailTemplate. All strings are already
// localized; html/template escapes them.
type emailView struct {
	Lang         string
	Heading      string
	Intro        string
	Details      []detail
	ConfirmURL   string
	ConfirmLabel string
	Signoff      string
	Team         string
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Heading}}</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <table width="100%" cellpadding="0" cellspacing="0">
    <tr>
      <td align="center">
        <table width="600" cellpadding="20" cellspacing="0"
          style="border: 1px solid #eaeaea; border-radius: 5px; background-color: #f9f9f9;">
          <tr>
            <td>
              <h2 style="color: #4CAF50;">{{.Heading}}</h2>
              <p>{{.Intro}}</p>
              {{- if .Details}}
              <ul>
                {{- range .Details}}
                <li><strong>{{.Label}}:</strong> {{.Value}}</li>
                {{- end}}
              </ul>
              {{- end}}
              <p><a href="{{.ConfirmURL}}">{{.ConfirmLabel}}</a></p>
              <p>{{.Signoff}}</p>
              <p><strong>{{.Team}}</strong></p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

func renderEmail(v emailView) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
