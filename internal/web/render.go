package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/terra-clan/company-site/internal/locale"
)

const baseTemplate = "base.html"

// Renderer holds one parsed template set per page. Every page is parsed
// together with base.html and executed through it.
type Renderer struct {
	fsys  fs.FS
	funcs template.FuncMap

	mu    sync.RWMutex
	pages map[string]*template.Template
}

// NewRenderer parses every page in fsys
func NewRenderer(fsys fs.FS, catalog *locale.Catalog) (*Renderer, error) {
	r := &Renderer{fsys: fsys, funcs: templateFuncs(catalog)}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load (re)parses the template set. The previous set is kept on error.
func (r *Renderer) Load() error {
	entries, err := fs.ReadDir(r.fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".html" || name == baseTemplate {
			continue
		}

		tmpl, err := template.New(baseTemplate).Funcs(r.funcs).ParseFS(r.fsys, baseTemplate, name)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	r.mu.Lock()
	r.pages = pages
	r.mu.Unlock()
	return nil
}

// Render executes page into w. Output is buffered so a failing template
// never produces a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	r.mu.RLock()
	tmpl, ok := r.pages[page]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Watch reloads the templates whenever a file in dir changes, until ctx is
// done. Bursts of events are debounced.
func (r *Renderer) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		const debounce = 200 * time.Millisecond

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				slog.Debug("template change detected", "file", event.Name, "op", event.Op.String())

				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					if err := r.Load(); err != nil {
						slog.Error("failed to reload templates", "error", err)
						return
					}
					slog.Info("templates reloaded", "dir", dir)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("template watcher error", "error", err)
			}
		}
	}()

	return nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithHardWraps(),
		// post bodies come from admins and may already be HTML
		gmhtml.WithUnsafe(),
	),
)

// renderMarkdown converts s to HTML, falling back to escaped text
func renderMarkdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		slog.Warn("failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}

func templateFuncs(catalog *locale.Catalog) template.FuncMap {
	return template.FuncMap{
		"t": func(loc, key string) string {
			return catalog.T(loc, key)
		},
		"markdown": renderMarkdown,
		"title": func(loc, s string) string {
			tag, err := language.Parse(loc)
			if err != nil {
				tag = language.English
			}
			return cases.Title(tag).String(s)
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"localized": localizedPath,
		"upper":     strings.ToUpper,
	}
}

// localizedPath prefixes an unlocalized site path with the locale segment
func localizedPath(loc, p string) string {
	if p == "" || p == "/" {
		return "/" + loc
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return "/" + loc + p
}
