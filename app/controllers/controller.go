package controllers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"blog/app/render"
	"blog/app/services"
	"blog/app/session"
	"blog/app/views"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Templates maps a page name to its parsed template set.
type Templates map[string]*template.Template

var errNoSession = errors.New("no session in request context")

var pages = map[string]string{
	"index":  "posts/index.html",
	"all":    "posts/all.html",
	"show":   "posts/show.html",
	"stored": "posts/stored.html",
}

// formContext pairs a comment form with the URL it posts to
type formContext struct {
	Action string
	Form   *services.CommentForm
}

// LoadTemplates parses every page together with the layout and shared partials
func LoadTemplates() (Templates, error) {
	funcs := render.Funcs()
	funcs["formContext"] = func(action string, form *services.CommentForm) formContext {
		return formContext{Action: action, Form: form}
	}

	templates := make(Templates, len(pages))
	for name, page := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(views.FS, "layout.html", "shared/*.html", page)
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", page)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// base carries the response helpers shared by the controllers
type base struct {
	templates Templates
	logger    *zap.Logger
}

func (b *base) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	tmpl, ok := b.templates[name]
	if !ok {
		b.sendError(w, r, "Template not found: "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		b.logger.Error("template error", zap.String("template", name), zap.Error(err))
		b.sendError(w, r, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (b *base) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if isAPI(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": message})
		return
	}
	http.Error(w, message, status)
}

// serverError logs err and answers with a generic 500
func (b *base) serverError(w http.ResponseWriter, r *http.Request, err error) {
	b.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	b.sendError(w, r, "Internal Server Error", http.StatusInternalServerError)
}

// savedSet reads the visitor's saved-for-later set. Missing or unreadable
// session state counts as an empty set.
func (b *base) savedSet(r *http.Request) services.SavedSet {
	sess := session.FromContext(r.Context())
	if sess == nil {
		return nil
	}
	var set services.SavedSet
	if _, err := sess.Get(services.StoredPostsKey, &set); err != nil {
		b.logger.Warn("unreadable saved posts", zap.String("session", sess.ID), zap.Error(err))
		return nil
	}
	return set
}

func isAPI(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api/")
}
