// Package web implements the Ansuz HTML interface using chi.
package web

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all web routes mounted. Static
// routes (/new, /img_upload, /users/...) are matched ahead of the
// {name} document routes.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)

	r.Get("/new", h.NewForm)
	r.Post("/create", h.Create)

	r.Get("/img_upload", h.UploadForm)
	r.Post("/img_upload", h.Upload)

	r.Get("/users/signin", h.SignInForm)
	r.Post("/users/signin", h.SignIn)
	r.Get("/users/signup", h.SignUpForm)
	r.Post("/users/signup", h.SignUp)
	r.Post("/users/signout", h.SignOut)

	r.Get("/{name}", h.View)
	r.Post("/{name}", h.Save)
	r.Get("/{name}/edit", h.EditForm)
	r.Post("/{name}/delete", h.Delete)
	r.Post("/{name}/duplicate", h.Duplicate)
	r.Get("/{name}/rename", h.RenameForm)
	r.Post("/{name}/rename", h.Rename)
	r.Get("/{name}/history", h.History)

	return r
}
