package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"forum/internal/response"
)

//go:embed templates
var templateFS embed.FS

const layoutFile = "templates/layout.html"

type views struct {
	pages map[string]*template.Template
}

// page is the data every view receives.
type page struct {
	Status  int
	Message string
	Payload any
}

var funcs = template.FuncMap{
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}

// loadViews parses every page under templates/ together with the layout. A page
// at templates/post/show.html is registered as "post/show".
func loadViews() (*views, error) {
	v := &views{pages: map[string]*template.Template{}}
	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == layoutFile {
			return err
		}
		t, err := template.New("").Funcs(funcs).ParseFS(templateFS, layoutFile, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		v.pages[name] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (v *views) render(w http.ResponseWriter, r *http.Request, res *response.Response) {
	t, ok := v.pages[res.Template()]
	if !ok {
		t = v.pages["error"]
	}
	var buf bytes.Buffer
	data := page{Status: res.StatusCode(), Message: res.Message(), Payload: res.Payload()}
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("view", res.Template()).Msg("render view")
		http.Error(w, "Internal server error!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(res.StatusCode())
	buf.WriteTo(w)
}
