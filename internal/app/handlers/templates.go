package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"sync"

	"github.com/linemk/shop-admin/internal/domain/models"
)

const layoutTemplate = "layout.html"

// TemplateCache holds parsed templates; every page is parsed together with the layout
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"money": func(v float64) string {
				return fmt.Sprintf("%.2f", v)
			},
			"statuses": func() []models.Status {
				return models.Statuses
			},
		},
	}
}

func (tc *TemplateCache) AddFunc(name string, fn interface{}) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.funcs[name] = fn
}

// Load parses all pages in dir of fsys
func (tc *TemplateCache) Load(fsys fs.FS, dir string) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return err
	}
	layout := path.Join(dir, layoutTemplate)
	for _, file := range files {
		name := path.Base(file)
		if name == layoutTemplate {
			continue
		}
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, layout, file)
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		tc.cache[name] = tmpl
		slog.Debug("cached template", slog.String("name", name))
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}

// Render выполняет страницу в буфер, чтобы ошибка шаблона не оставила полуответ
func (tc *TemplateCache) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl := tc.Get(name)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", name)
	}
	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
