package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/markdown"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/userstore"
)

// Flash texts shown to users. The wording is part of the behavioral
// contract and covered by tests.
const (
	msgSignInRequired     = "You must be signed in to do that."
	msgWelcome            = "Welcome!"
	msgSignedOut          = "You have been signed out."
	msgInvalidCredentials = "Invalid Credentials"
)

const maxUploadBytes = 10 << 20 // 10 MB

// Handler holds the web UI route handlers.
type Handler struct {
	svc      *docservice.Service
	users    *userstore.Store
	sessions *SessionManager
	pages    pages
}

// NewHandler creates a Handler with all templates parsed.
func NewHandler(svc *docservice.Service, users *userstore.Store, sessions *SessionManager) (*Handler, error) {
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, users: users, sessions: sessions, pages: p}, nil
}

// pageData carries everything the templates can show. Pages use the
// subset of fields they need.
type pageData struct {
	Flash     string
	Username  string
	SignedIn  bool
	Name      string
	NewName   string
	Content   string
	Error     string
	Documents []string
	Images    []string
	Versions  []string
	Body      template.HTML
}

// page builds the base page data, consuming the pending flash message.
func (h *Handler) page(r *http.Request) pageData {
	username := h.sessions.Username(r)
	return pageData{
		Flash:    h.sessions.TakeFlash(r),
		Username: username,
		SignedIn: username != "",
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.render(w, page, data); err != nil {
		slog.Error("render failed", slog.String("page", page), slog.String("error", err.Error()))
	}
}

// requireUser is the auth gate: unauthenticated visitors get a flash
// message and a redirect home instead of the guarded page.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) bool {
	if h.sessions.Username(r) != "" {
		return true
	}
	h.sessions.SetFlash(w, r, msgSignInRequired)
	http.Redirect(w, r, "/", http.StatusFound)
	return false
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, flash string) {
	h.sessions.SetFlash(w, r, flash)
	http.Redirect(w, r, "/", http.StatusFound)
}

func docName(r *http.Request) string {
	return chi.URLParam(r, "name")
}

// Index handles GET /: the document listing, split into text-like
// documents and images.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.List(r.Context())
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := h.page(r)
	for _, name := range names {
		if storage.ClassifyName(name) == storage.KindImage {
			data.Images = append(data.Images, name)
		} else {
			data.Documents = append(data.Documents, name)
		}
	}
	h.render(w, http.StatusOK, "index.html", data)
}

// NewForm handles GET /new.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	h.render(w, http.StatusOK, "new.html", h.page(r))
}

// Create handles POST /create.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := r.FormValue("filename")
	if err := h.svc.Create(r.Context(), name); err != nil {
		data := h.page(r)
		data.Name = name
		if errors.Is(err, apperr.ErrAlreadyExists) {
			data.Error = fmt.Sprintf("%s already exists.", name)
		} else {
			data.Error = err.Error()
		}
		h.render(w, http.StatusUnprocessableEntity, "new.html", data)
		return
	}
	h.redirectHome(w, r, fmt.Sprintf("%s was created.", name))
}

// View handles GET /{name}: markdown renders inside the layout, text
// serves as plain text, images stream with their image content type.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	name := docName(r)
	doc, err := h.svc.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.redirectHome(w, r, fmt.Sprintf("%s does not exist.", name))
			return
		}
		slog.Error("read document failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	switch doc.Kind {
	case storage.KindMarkdown:
		html, err := markdown.Render(doc.Content)
		if err != nil {
			slog.Error("markdown render failed", slog.String("name", name), slog.String("error", err.Error()))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		data := h.page(r)
		data.Name = name
		data.Body = template.HTML(html)
		h.render(w, http.StatusOK, "view.html", data)
	case storage.KindText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write(doc.Content)
	case storage.KindImage:
		ct := mime.TypeByExtension(filepath.Ext(name))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = w.Write(doc.Content)
	default:
		h.redirectHome(w, r, fmt.Sprintf("%s cannot be displayed.", name))
	}
}

// EditForm handles GET /{name}/edit.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := docName(r)
	doc, err := h.svc.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.redirectHome(w, r, fmt.Sprintf("%s does not exist.", name))
			return
		}
		slog.Error("read document failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := h.page(r)
	data.Name = name
	data.Content = string(doc.Content)
	h.render(w, http.StatusOK, "edit.html", data)
}

// Save handles POST /{name}: snapshot history, then overwrite.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := docName(r)
	if err := h.svc.Save(r.Context(), name, []byte(r.FormValue("content"))); err != nil {
		slog.Error("save document failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.redirectHome(w, r, fmt.Sprintf("%s has been updated.", name))
}

// Delete handles POST /{name}/delete.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := docName(r)
	if err := h.svc.Delete(r.Context(), name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.redirectHome(w, r, fmt.Sprintf("%s does not exist.", name))
			return
		}
		slog.Error("delete document failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.redirectHome(w, r, fmt.Sprintf("%s was deleted.", name))
}

// Duplicate handles POST /{name}/duplicate.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := docName(r)
	copyName, err := h.svc.Duplicate(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.redirectHome(w, r, fmt.Sprintf("%s does not exist.", name))
			return
		}
		slog.Error("duplicate document failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.redirectHome(w, r, fmt.Sprintf("%s was duplicated as %s.", name, copyName))
}

// RenameForm handles GET /{name}/rename.
func (h *Handler) RenameForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	data := h.page(r)
	data.Name = docName(r)
	h.render(w, http.StatusOK, "rename.html", data)
}

// Rename handles POST /{name}/rename.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	name := docName(r)
	newName := r.FormValue("new_name")
	err := h.svc.Rename(r.Context(), name, newName)
	if err == nil {
		h.redirectHome(w, r, fmt.Sprintf("%s has been renamed to %s.", name, newName))
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		h.redirectHome(w, r, fmt.Sprintf("%s does not exist.", name))
		return
	}
	data := h.page(r)
	data.Name = name
	data.NewName = newName
	if errors.Is(err, apperr.ErrAlreadyExists) {
		data.Error = fmt.Sprintf("%s already exists.", newName)
	} else {
		data.Error = err.Error()
	}
	h.render(w, http.StatusUnprocessableEntity, "rename.html", data)
}

// History handles GET /{name}/history. No auth: prior versions are as
// public as the document itself.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	name := docName(r)
	versions, err := h.svc.Versions(r.Context(), name)
	if err != nil {
		slog.Error("read history failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := h.page(r)
	data.Name = name
	data.Versions = versions
	h.render(w, http.StatusOK, "history.html", data)
}

// UploadForm handles GET /img_upload.
func (h *Handler) UploadForm(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	h.render(w, http.StatusOK, "upload.html", h.page(r))
}

// Upload handles POST /img_upload (multipart/form-data, field "image").
// The document is stored under the uploaded file's name.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		data := h.page(r)
		data.Error = "The upload is too large or not a valid form."
		h.render(w, http.StatusUnprocessableEntity, "upload.html", data)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		data := h.page(r)
		data.Error = "An image file is required."
		h.render(w, http.StatusUnprocessableEntity, "upload.html", data)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read upload failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	name := filepath.Base(header.Filename)
	if err := h.svc.Upload(r.Context(), name, content); err != nil {
		data := h.page(r)
		data.Error = err.Error()
		h.render(w, http.StatusUnprocessableEntity, "upload.html", data)
		return
	}
	h.redirectHome(w, r, fmt.Sprintf("%s was uploaded.", name))
}

// SignInForm handles GET /users/signin.
func (h *Handler) SignInForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signin.html", h.page(r))
}

// SignIn handles POST /users/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if err := h.users.Verify(username, password); err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			data := h.page(r)
			data.Name = username
			data.Error = msgInvalidCredentials
			h.render(w, http.StatusUnprocessableEntity, "signin.html", data)
			return
		}
		slog.Error("verify credentials failed", slog.String("username", username), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.sessions.SignIn(w, r, username)
	h.redirectHome(w, r, msgWelcome)
}

// SignUpForm handles GET /users/signup.
func (h *Handler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "signup.html", h.page(r))
}

// SignUp handles POST /users/signup. A successful registration signs
// the new user in immediately.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if err := h.users.Register(username, password); err != nil {
		data := h.page(r)
		data.Name = username
		if errors.Is(err, apperr.ErrAlreadyExists) {
			data.Error = fmt.Sprintf("%s is already taken.", username)
		} else {
			data.Error = err.Error()
		}
		h.render(w, http.StatusUnprocessableEntity, "signup.html", data)
		return
	}
	h.sessions.SignIn(w, r, username)
	h.redirectHome(w, r, msgWelcome)
}

// SignOut handles POST /users/signout.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w, r)
	h.redirectHome(w, r, msgSignedOut)
}
