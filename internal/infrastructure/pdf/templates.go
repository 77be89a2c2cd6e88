package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
)

// DocumentItem is one line of a rendered document
type DocumentItem struct {
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// DocumentData carries everything a document template needs
type DocumentData struct {
	Kind   string // "Quote" or "Invoice"
	Number string
	Status string

	CompanyName    string
	CompanyTagline string
	CompanyEmail   string
	CompanyPhone   string
	CompanyAddress string
	LogoURL        string
	PrimaryColor   string
	AccentColor    string

	ClientName    string
	ClientEmail   string
	ClientAddress string

	IssuedDate string
	DueDate    string // due date for invoices, valid-until for quotes
	DueLabel   string

	Items    []DocumentItem
	Subtotal string
	TaxRate  string
	Tax      string
	Total    string
	Notes    string
}

// themeStyles holds the CSS fragment that differentiates each theme
var themeStyles = map[string]string{
	"professional": `
		body { font-family: Georgia, serif; color: #1f2937; }
		.doc-header { border-bottom: 3px solid {{.PrimaryColor}}; padding-bottom: 16px; }
		.doc-title { color: {{.PrimaryColor}}; font-size: 28px; letter-spacing: 1px; }
		th { background: {{.PrimaryColor}}; color: #fff; }
		.totals .grand { color: {{.PrimaryColor}}; }`,
	"modern": `
		body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #111827; }
		.doc-header { background: {{.PrimaryColor}}; color: #fff; padding: 24px; border-radius: 8px; }
		.doc-title { font-size: 32px; font-weight: 300; }
		th { border-bottom: 2px solid {{.AccentColor}}; text-transform: uppercase; font-size: 11px; }
		.totals .grand { background: {{.AccentColor}}; color: #fff; padding: 4px 12px; border-radius: 4px; }`,
	"minimal": `
		body { font-family: Arial, sans-serif; color: #374151; }
		.doc-header { padding-bottom: 8px; }
		.doc-title { font-size: 22px; font-weight: normal; }
		th { border-bottom: 1px solid #d1d5db; font-weight: normal; color: #6b7280; }
		.totals .grand { font-weight: bold; }`,
	"bold": `
		body { font-family: 'Arial Black', Arial, sans-serif; color: #111; }
		.doc-header { border-left: 12px solid {{.PrimaryColor}}; padding-left: 16px; }
		.doc-title { font-size: 36px; color: {{.PrimaryColor}}; text-transform: uppercase; }
		th { background: #111; color: #fff; }
		.totals .grand { font-size: 20px; color: {{.PrimaryColor}}; }`,
	"classic": `
		body { font-family: 'Times New Roman', Times, serif; color: #000; }
		.doc-header { border-top: 1px solid #000; border-bottom: 1px solid #000; padding: 12px 0; }
		.doc-title { font-size: 26px; font-variant: small-caps; }
		th { border-top: 1px solid #000; border-bottom: 1px solid #000; }
		.totals .grand { border-top: 2px double #000; }`,
}

const baseLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
	body { margin: 0; padding: 24px; font-size: 13px; }
	.doc-header { display: flex; justify-content: space-between; margin-bottom: 28px; }
	.doc-logo { max-height: 64px; }
	.doc-title { margin: 0; }
	.parties { display: flex; justify-content: space-between; margin-bottom: 24px; }
	.parties h4 { margin: 0 0 4px 0; font-size: 11px; text-transform: uppercase; color: #6b7280; }
	table.items { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
	table.items th, table.items td { text-align: left; padding: 8px; }
	table.items td.num, table.items th.num { text-align: right; }
	.totals { width: 280px; margin-left: auto; }
	.totals div { display: flex; justify-content: space-between; padding: 4px 0; }
	.notes { margin-top: 32px; font-size: 12px; color: #4b5563; white-space: pre-wrap; }
	{{template "theme" .}}
</style>
</head>
<body>
	<div class="doc-header">
		<div>
			{{if .LogoURL}}<img class="doc-logo" src="{{.LogoURL}}" alt="">{{end}}
			<h2 style="margin:4px 0 0 0">{{.CompanyName}}</h2>
			{{if .CompanyTagline}}<div>{{.CompanyTagline}}</div>{{end}}
		</div>
		<div style="text-align:right">
			<h1 class="doc-title">{{.Kind}}</h1>
			<div>{{.Number}}</div>
			<div>Issued {{.IssuedDate}}</div>
			{{if .DueDate}}<div>{{.DueLabel}} {{.DueDate}}</div>{{end}}
		</div>
	</div>

	<div class="parties">
		<div>
			<h4>Bill To</h4>
			<div><strong>{{.ClientName}}</strong></div>
			{{if .ClientEmail}}<div>{{.ClientEmail}}</div>{{end}}
			{{if .ClientAddress}}<div style="white-space:pre-wrap">{{.ClientAddress}}</div>{{end}}
		</div>
		<div style="text-align:right">
			<h4>From</h4>
			{{if .CompanyAddress}}<div style="white-space:pre-wrap">{{.CompanyAddress}}</div>{{end}}
			{{if .CompanyEmail}}<div>{{.CompanyEmail}}</div>{{end}}
			{{if .CompanyPhone}}<div>{{.CompanyPhone}}</div>{{end}}
		</div>
	</div>

	<table class="items">
		<thead>
			<tr><th>Description</th><th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Amount</th></tr>
		</thead>
		<tbody>
			{{range .Items}}
			<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Amount}}</td></tr>
			{{end}}
		</tbody>
	</table>

	<div class="totals">
		<div><span>Subtotal</span><span>{{.Subtotal}}</span></div>
		<div><span>Tax ({{.TaxRate}})</span><span>{{.Tax}}</span></div>
		<div class="grand"><span>Total</span><span>{{.Total}}</span></div>
	</div>

	{{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>`

// TemplateRegistry holds the parsed document templates, one per theme
type TemplateRegistry struct {
	templates map[string]*template.Template
}

// NewTemplateRegistry parses all built-in document themes
func NewTemplateRegistry() (*TemplateRegistry, error) {
	templates := make(map[string]*template.Template, len(themeStyles))
	for name, style := range themeStyles {
		tpl, err := template.New(name).Parse(baseLayout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base layout for theme %s: %w", name, err)
		}
		if _, err := tpl.New("theme").Parse(style); err != nil {
			return nil, fmt.Errorf("failed to parse theme %s: %w", name, err)
		}
		templates[name] = tpl
	}
	return &TemplateRegistry{templates: templates}, nil
}

// Themes returns the available theme names, sorted
func (r *TemplateRegistry) Themes() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTheme reports whether a theme is registered
func (r *TemplateRegistry) HasTheme(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// RenderHTML renders a document with the given theme. Unknown themes
// fall back to "professional".
func (r *TemplateRegistry) RenderHTML(theme string, data DocumentData) (string, error) {
	tpl, ok := r.templates[theme]
	if !ok {
		tpl = r.templates["professional"]
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render document template: %w", err)
	}
	return buf.String(), nil
}
