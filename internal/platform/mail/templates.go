package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/listoapp/listo-api/internal/domain"
)

// digestTemplate renders the task reminder digest body. The layout follows
// the frontend's styling so reminder mails look like the app.
var digestTemplate = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #007bff;">{{.Subject}}</h2>
{{range .Tasks}}<div style="margin: 15px 0; padding: 10px; border-left: 4px solid #007bff;">
<h3 style="margin: 0;">{{.Title}}</h3>
{{if .DueDate}}<p>Fecha l&iacute;mite: {{.DueDate}}</p>{{end}}
<p>Prioridad: {{.Priority}}</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>
{{end}}</div>
</body>
</html>
`))

// resetTemplate renders the password reset mail.
var resetTemplate = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<h2 style="color: #007bff;">Restablecimiento de Contrase&ntilde;a</h2>
<p>Hola,</p>
<p>Hemos recibido una solicitud para restablecer tu contrase&ntilde;a. Si no realizaste esta solicitud, puedes ignorar este correo.</p>
<div style="text-align: center; margin: 30px 0;">
<a href="{{.ResetURL}}" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Restablecer Contrase&ntilde;a</a>
</div>
<p>Este enlace expirar&aacute; en 1 hora por razones de seguridad.</p>
<p>Saludos,<br>El equipo de {{.AppName}}</p>
</div>
</body>
</html>
`))

// digestTask is the template view of a task in a reminder digest.
type digestTask struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// buildDigestBody renders the HTML digest for the given tasks, formatting
// due dates in the user's timezone. An unresolvable timezone falls back to
// UTC rather than failing the whole send.
func buildDigestBody(subject string, tasks []*domain.Task, user *domain.User) (string, error) {
	loc, err := user.Location()
	if err != nil {
		loc = time.UTC
	}

	view := struct {
		Subject string
		Tasks   []digestTask
	}{Subject: subject}

	for _, task := range tasks {
		item := digestTask{
			Title:       task.Title,
			Description: task.Description,
			Priority:    task.PriorityLabel(),
		}
		if task.DueDate != nil {
			item.DueDate = task.DueDate.In(loc).Format("2006-01-02 15:04")
		}
		view.Tasks = append(view.Tasks, item)
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute digest template: %w", err)
	}
	return buf.String(), nil
}

// buildResetBody renders the password reset mail pointing at the frontend's
// reset page.
func buildResetBody(frontendURL, token, appName string) (string, error) {
	view := struct {
		ResetURL string
		AppName  string
	}{
		ResetURL: fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token),
		AppName:  appName,
	}

	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("execute reset template: %w", err)
	}
	return buf.String(), nil
}
