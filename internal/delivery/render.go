package delivery

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"admin_console/internal/clients"
	"admin_console/internal/domain"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "dashboard", "list", "form", "confirm", "notfound"}

// page is what every template receives; Data holds the screen's own view.
type page struct {
	Title         string
	Email         string
	Notifications []domain.Notification
	Data          any
}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer(apiBaseURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"price":   domain.FormatPrice,
		"excerpt": func(p domain.Product, n int) string { return p.Excerpt(n) },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		},
		"imageURL": func(ref string) string { return clients.ResolveImageURL(apiBaseURL, ref) },
		"safeURL":  func(s string) template.URL { return template.URL(s) },
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes a full page. The page is buffered so a template error
// still yields a clean 500.
func (r *Renderer) Render(c *gin.Context, status int, name string, p page) {
	t, ok := r.pages[name]
	if !ok {
		_ = c.Error(fmt.Errorf("unknown page %q", name))
		c.String(http.StatusInternalServerError, "Error interno")
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		_ = c.Error(fmt.Errorf("render %s: %w", name, err))
		c.String(http.StatusInternalServerError, "Error interno")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
