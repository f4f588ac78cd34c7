package controllers

import (
	"net/http"

	"blog/app/repositories"
	"blog/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CommentController handles comment submissions on the post detail page
type CommentController struct {
	base
	detailService *services.DetailService
}

// NewCommentController creates a new CommentController
func NewCommentController(detailService *services.DetailService, templates Templates, logger *zap.Logger) *CommentController {
	return &CommentController{
		base:          base{templates: templates, logger: logger},
		detailService: detailService,
	}
}

// NewCommentControllerWithRepository wires a CommentController over a repository bundle
func NewCommentControllerWithRepository(repo *repositories.Repository, templates Templates, logger *zap.Logger) *CommentController {
	return NewCommentController(
		services.NewDetailService(repo.Posts, repo.Authors, repo.Tags, repo.Comments),
		templates,
		logger,
	)
}

// Create stores a comment for the post named in the URL. A valid comment
// redirects back to the post; an invalid one re-renders the post page with
// the submitted values and errors.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := services.NewCommentForm(r.PostForm)
	outcome, err := cc.detailService.Submit(mux.Vars(r)["slug"], form, cc.savedSet(r))
	if errors.Is(err, services.ErrPostNotFound) {
		cc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		cc.serverError(w, r, err)
		return
	}

	if outcome.RedirectTo != "" {
		http.Redirect(w, r, outcome.RedirectTo, http.StatusSeeOther)
		return
	}
	cc.render(w, r, "show", outcome.Detail)
}
