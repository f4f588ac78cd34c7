package routes

import (
	"net/http"

	"blog/app/controllers"
	"blog/app/middleware"
	"blog/app/repositories"
	"blog/app/session"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const slugPattern = "{slug:[-a-zA-Z0-9_]+}"

// Options locates the directories served as files.
type Options struct {
	StaticDir string
	MediaDir  string
}

// SetupRoutes defines the application's routes over the repository bundle
// and returns a router.
func SetupRoutes(repo *repositories.Repository, sessions *session.Manager, templates controllers.Templates, logger *zap.Logger, opts Options) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(sessions.Middleware)
	router.Use(middleware.ContentTypeJSON)

	postController := controllers.NewPostControllerWithRepository(repo, templates, logger)
	commentController := controllers.NewCommentControllerWithRepository(repo, templates, logger)
	readLaterController := controllers.NewReadLaterControllerWithRepository(repo, templates, logger)

	// Serve static and uploaded files
	if opts.StaticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
	}
	if opts.MediaDir != "" {
		router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(opts.MediaDir))))
	}

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")

	posts := router.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.List).Methods("GET")
	posts.HandleFunc("/"+slugPattern, postController.Show).Methods("GET")
	posts.HandleFunc("/"+slugPattern, commentController.Create).Methods("POST")

	router.HandleFunc("/read-later", readLaterController.Index).Methods("GET")
	router.HandleFunc("/read-later", readLaterController.Toggle).Methods("POST")

	// API routes. They sit on the root router so a wrong method answers 405.
	router.HandleFunc("/api/posts", postController.APIIndex).Methods("GET")
	router.HandleFunc("/api/posts/"+slugPattern, postController.APIShow).Methods("GET")
	router.HandleFunc("/api/authors/{id:[0-9]+}/posts", postController.APIByAuthor).Methods("GET")
	router.HandleFunc("/api/tags/{id:[0-9]+}/posts", postController.APIByTag).Methods("GET")

	return router
}
