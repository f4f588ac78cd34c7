package controllers

import (
	"net/http"
	"strconv"

	"blog/app/models"
	"blog/app/repositories"
	"blog/app/services"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	base
	postService   *services.PostService
	detailService *services.DetailService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService, detailService *services.DetailService, templates Templates, logger *zap.Logger) *PostController {
	return &PostController{
		base:          base{templates: templates, logger: logger},
		postService:   postService,
		detailService: detailService,
	}
}

// NewPostControllerWithRepository wires a PostController over a repository bundle
func NewPostControllerWithRepository(repo *repositories.Repository, templates Templates, logger *zap.Logger) *PostController {
	return NewPostController(
		services.NewPostService(repo.Posts, repo.Authors, repo.Tags),
		services.NewDetailService(repo.Posts, repo.Authors, repo.Tags, repo.Comments),
		templates,
		logger,
	)
}

// Index shows the starting page with the latest posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.Latest(services.StartingPageSize)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, "index", struct{ Posts []*models.Post }{posts})
}

// List shows every post
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.All()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, "all", struct{ Posts []*models.Post }{posts})
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	detail, err := pc.detailService.Show(mux.Vars(r)["slug"], pc.savedSet(r))
	if errors.Is(err, services.ErrPostNotFound) {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, "show", detail)
}

// APIIndex lists every post as JSON
func (pc *PostController) APIIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.postService.All()
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.sendJSON(w, map[string]interface{}{"posts": posts})
}

// APIShow returns a post with its author, tags and comments as JSON
func (pc *PostController) APIShow(w http.ResponseWriter, r *http.Request) {
	detail, err := pc.detailService.Show(mux.Vars(r)["slug"], pc.savedSet(r))
	if errors.Is(err, services.ErrPostNotFound) {
		pc.sendError(w, r, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.sendJSON(w, detail)
}

// APIByAuthor lists an author's posts as JSON
func (pc *PostController) APIByAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, "Invalid author ID", http.StatusBadRequest)
		return
	}
	author, posts, err := pc.postService.ByAuthor(id)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.sendError(w, r, "Author not found", http.StatusNotFound)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.sendJSON(w, map[string]interface{}{"author": author, "posts": posts})
}

// APIByTag lists the posts carrying a tag as JSON
func (pc *PostController) APIByTag(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, "Invalid tag ID", http.StatusBadRequest)
		return
	}
	tag, posts, err := pc.postService.ByTag(id)
	if errors.Is(err, repositories.ErrNotFound) {
		pc.sendError(w, r, "Tag not found", http.StatusNotFound)
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.sendJSON(w, map[string]interface{}{"tag": tag, "posts": posts})
}
