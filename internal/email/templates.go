package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Имена встроенных шаблонов
const (
	TemplateGeneric           = "generic"
	TemplateShortlisted       = "shortlisted"
	TemplateRoundScheduled    = "round_scheduled"
	TemplateOfferIssued       = "offer_issued"
	TemplateOfferAcknowledged = "offer_acknowledged"
)

// TemplateData - данные для рендеринга письма
type TemplateData struct {
	Title   string
	Message string
	// Details выводятся таблицей под текстом
	Details map[string]string
	Link    string
}

// TemplateManager рендерит HTML тела писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// AddTemplate регистрирует шаблон поверх базового layout
func (tm *TemplateManager) AddTemplate(name, body string) error {
	tpl, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}
	if _, err := tpl.New("content").Parse(body); err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

// Render рендерит шаблон; неизвестное имя падает на generic
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, ok := tm.templates[name]
	if !ok {
		tpl = tm.templates[TemplateGeneric]
	}
	tm.mutex.RUnlock()

	if tpl == nil {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const layoutTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
<div style="max-width: 600px; margin: 0 auto; padding: 24px;">
<h2 style="color: #1a56db;">{{.Title}}</h2>
{{template "content" .}}
{{if .Details}}<table style="border-collapse: collapse; margin-top: 16px;">
{{range $k, $v := .Details}}<tr><td style="padding: 4px 12px 4px 0;"><b>{{$k}}</b></td><td>{{$v}}</td></tr>
{{end}}</table>{{end}}
{{if .Link}}<p><a href="{{.Link}}">{{.Link}}</a></p>{{end}}
<p style="color: #888; font-size: 12px; margin-top: 32px;">HireFlow campus placements</p>
</div>
</body>
</html>`

var builtinTemplates = map[string]string{
	TemplateGeneric: `<p>{{.Message}}</p>`,
	TemplateShortlisted: `<p>Congratulations! {{.Message}}</p>
<p>Keep an eye on your dashboard for the next round schedule.</p>`,
	TemplateRoundScheduled: `<p>{{.Message}}</p>
<p>Please be on time and carry a copy of your resume.</p>`,
	TemplateOfferIssued: `<p>Congratulations! {{.Message}}</p>
<p>Log in to HireFlow to review and acknowledge your offer letter.</p>`,
	TemplateOfferAcknowledged: `<p>{{.Message}}</p>`,
}
