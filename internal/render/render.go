// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the dashboard and auth templates and executes them
// with the per-request layout data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/auth"
	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/view"
)

// Session keys used for one-shot flash messages.
const (
	keyFlash     = "flash"
	keyFlashType = "flash_type"
)

const (
	baseLayout      = "layouts/base.html"
	dashboardLayout = "layouts/dashboard.html"
)

// blankLinesRegex matches runs of blank lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`\r?\n(\s*\r?\n)+`)

// Renderer handles template rendering with caching.
type Renderer struct {
	mu             sync.RWMutex
	templates      map[string]*template.Template
	templatesFS    fs.FS
	extraFuncs     template.FuncMap
	sessionManager *scs.SessionManager
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Funcs          template.FuncMap
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		templatesFS:    cfg.TemplatesFS,
		extraFuncs:     maps.Clone(cfg.Funcs),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

// AddTemplateFuncs merges funcs into the function map and re-parses the
// templates so the new functions are visible to them.
func (r *Renderer) AddTemplateFuncs(funcs template.FuncMap) error {
	r.mu.Lock()
	if r.extraFuncs == nil {
		r.extraFuncs = template.FuncMap{}
	}
	maps.Copy(r.extraFuncs, funcs)
	r.mu.Unlock()

	if r.templatesFS == nil {
		return nil
	}
	return r.parseTemplates()
}

// Has reports whether a template named name was parsed.
func (r *Renderer) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// parseTemplates parses all templates from the filesystem.
func (r *Renderer) parseTemplates() error {
	if r.templatesFS == nil {
		return fmt.Errorf("no templates filesystem configured")
	}
	funcs := r.TemplateFuncs()
	templates := make(map[string]*template.Template)

	partials, err := getTemplateFiles(r.templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	// Views render inside the dashboard shell.
	views, err := getTemplateFiles(r.templatesFS, "views")
	if err != nil {
		return fmt.Errorf("getting view templates: %w", err)
	}
	for _, tmplPath := range views {
		files := append([]string{baseLayout, dashboardLayout}, partials...)
		files = append(files, tmplPath)
		name := templateName("views", tmplPath)

		tmpl, err := template.New("").Funcs(funcs).ParseFS(r.templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	// Auth screens use the base layout only.
	authTemplates, err := getTemplateFiles(r.templatesFS, "auth")
	if err != nil {
		return fmt.Errorf("getting auth templates: %w", err)
	}
	for _, tmplPath := range authTemplates {
		files := append([]string{baseLayout}, partials...)
		files = append(files, tmplPath)
		name := templateName("auth", tmplPath)

		tmpl, err := template.New("").Funcs(funcs).ParseFS(r.templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()
	return nil
}

func templateName(dir, file string) string {
	return dir + "/" + strings.TrimSuffix(path.Base(file), ".html")
}

// getTemplateFiles returns all .html files in a directory.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// A missing directory just contributes no templates.
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title            string
	Data             any
	User             *auth.User
	View             view.ID
	Sidebar          []view.Item
	SidebarCollapsed bool
	Preferences      session.Preferences
	Fragment         bool
	Flash            string
	FlashType        string
	CurrentYear      int
}

// Render renders a template with the given data. Fragment requests execute
// only the view's "content" block so the page can swap it in place.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	if r.isDev {
		if err := r.parseTemplates(); err != nil {
			return fmt.Errorf("reloading templates: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	if data.Sidebar == nil {
		data.Sidebar = view.Items()
	}
	if data.Preferences.Theme == "" {
		data.Preferences = session.DefaultPreferences()
	}

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), keyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), keyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
	}

	entry := "base"
	if data.Fragment {
		entry = "content"
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, entry, data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// SetFlash stores a one-shot message shown on the next render.
func SetFlash(r *http.Request, sm *scs.SessionManager, message, flashType string) {
	sm.Put(r.Context(), keyFlash, message)
	sm.Put(r.Context(), keyFlashType, flashType)
}
