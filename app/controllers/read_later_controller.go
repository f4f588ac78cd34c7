package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"blog/app/models"
	"blog/app/repositories"
	"blog/app/services"
	"blog/app/session"

	"go.uber.org/zap"
)

// ReadLaterController shows and toggles the visitor's saved posts
type ReadLaterController struct {
	base
	readLater *services.ReadLaterService
}

// NewReadLaterController creates a new ReadLaterController
func NewReadLaterController(readLater *services.ReadLaterService, templates Templates, logger *zap.Logger) *ReadLaterController {
	return &ReadLaterController{
		base:      base{templates: templates, logger: logger},
		readLater: readLater,
	}
}

// NewReadLaterControllerWithRepository wires a ReadLaterController over a repository bundle
func NewReadLaterControllerWithRepository(repo *repositories.Repository, templates Templates, logger *zap.Logger) *ReadLaterController {
	return NewReadLaterController(services.NewReadLaterService(repo.Posts), templates, logger)
}

// Index lists the saved posts that still exist
func (rc *ReadLaterController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := rc.readLater.ListSaved(rc.savedSet(r))
	if err != nil {
		rc.serverError(w, r, err)
		return
	}
	rc.render(w, r, "stored", struct {
		Posts    []*models.Post
		HasPosts bool
	}{posts, len(posts) > 0})
}

// Toggle adds or removes post_id from the saved set and redirects home
func (rc *ReadLaterController) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		rc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	postID, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("post_id")))
	if err != nil {
		rc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}

	sess := session.FromContext(r.Context())
	if sess == nil {
		rc.serverError(w, r, errNoSession)
		return
	}

	set, added := rc.savedSet(r).Toggle(postID)
	if len(set) == 0 {
		sess.Delete(services.StoredPostsKey)
	} else if err := sess.Set(services.StoredPostsKey, set); err != nil {
		rc.serverError(w, r, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		rc.serverError(w, r, err)
		return
	}
	rc.logger.Debug("read later toggled", zap.Int("post_id", postID), zap.Bool("added", added))

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
