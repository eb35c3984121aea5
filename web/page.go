package web

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"multipliers": func() []int {
		m := make([]int, engine.MaxMultiplier+1)
		for i := range m {
			m[i] = i
		}
		return m
	},
	"expedition": func(slot int) string {
		return engine.ExpeditionNames[slot]
	},
}).ParseFS(templateFS, "templates/page.html"))

type paramInput struct {
	Field form.ParamField
	Label string
	Value int
}

type pageData struct {
	SheetID string
	View    form.View
	Params  []paramInput
}

// Page renders the full scoresheet page for a view
func Page(view form.View, sheetID string) templ.Component {
	data := pageData{
		SheetID: sheetID,
		View:    view,
	}
	for _, f := range form.ParamFields {
		data.Params = append(data.Params, paramInput{
			Field: f,
			Label: f.Label(),
			Value: f.Value(view.Parameters),
		})
	}

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pageTemplate.Execute(w, data)
	})
}
