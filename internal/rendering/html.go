package rendering

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/profile2pdf/internal/types"
)

// CreatedDateLayout formats the creation date printed under the title
const CreatedDateLayout = "2006-01-02"

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/resume.html.tmpl"),
)

type templateData struct {
	Resume    *types.ResumeRecord
	CreatedAt string
}

// RenderHTML renders record as a printable HTML document. The output depends
// only on its arguments.
func RenderHTML(record *types.ResumeRecord, createdAt time.Time) (string, error) {
	if record == nil {
		return "", &TemplateError{Message: "no resume to render"}
	}

	var sb strings.Builder
	err := resumeTemplate.Execute(&sb, templateData{
		Resume:    record,
		CreatedAt: createdAt.Format(CreatedDateLayout),
	})
	if err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return sb.String(), nil
}
