package editor

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/debemdeboas/the-showcase/internal/auth"
	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/notify"
	"github.com/debemdeboas/the-showcase/internal/routes"
	"github.com/debemdeboas/the-showcase/internal/theme"
	"github.com/debemdeboas/the-showcase/internal/util"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const MsgImageFailed = "Sorry, the image could not be saved."

// Handler turns the page's htmx requests into Store operations. Each
// mutation answers with the re-rendered block list, or a redirect to the
// page for plain form posts.
type Handler struct {
	store     *Store
	auth      auth.AuthProvider
	tmpl      *template.Template
	maxUpload int64
}

func NewHandler(store *Store, provider auth.AuthProvider, tmpl *template.Template, maxUpload int64) *Handler {
	if provider == nil {
		provider = auth.OpenProvider{}
	}
	return &Handler{
		store:     store,
		auth:      provider,
		tmpl:      tmpl,
		maxUpload: maxUpload,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get(routes.PartialsBlocks, h.ServeBlocks)
	r.Post(routes.EditToggle, h.requireOperator(h.ToggleEditMode))

	r.Group(func(r chi.Router) {
		r.Use(h.requireEditing)
		r.Post(routes.BlocksMenu, h.ToggleAddMenu)
		r.Delete(routes.BlocksMenu, h.CloseAddMenu)
		r.Post(routes.Blocks, h.AddBlock)
		r.Delete(routes.Block, h.DeleteBlock)
		r.Post(routes.BlockFields, h.UpdateFields)
		r.Post(routes.BlockMove, h.MoveBlock)
		r.Post(routes.BlockImage, h.UploadImage)
		r.Delete(routes.BlockImage, h.ClearImage)
	})
}

func (h *Handler) canEdit(r *http.Request) bool {
	_, err := h.auth.GetUserIDFromSession(r)
	return err == nil
}

// BlocksView is the block list as this request may see it.
func (h *Handler) BlocksView(r *http.Request) BlocksView {
	return NewBlocksView(h.store, h.canEdit(r), theme.GetSyntaxThemeFromRequest(r))
}

func (h *Handler) PageView(r *http.Request) PageView {
	pd := model.NewPageData(r)
	pd.Authenticated = auth.IsAuthenticated(r)
	return PageView{
		PageData: pd,
		Editor:   h.BlocksView(r),
		LoginURL: h.auth.LoginURL(),
	}
}

func (h *Handler) requireOperator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.auth.EnforceUserAndGetID(w, r); err != nil {
			zerolog.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("Editor request without operator")
			return
		}
		next(w, r)
	}
}

func (h *Handler) requireEditing(next http.Handler) http.Handler {
	return h.requireOperator(func(w http.ResponseWriter, r *http.Request) {
		if !h.store.EditMode() {
			http.Error(w, config.ErrNotEditing, http.StatusConflict)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ServeBlocks(w http.ResponseWriter, r *http.Request) {
	view := h.BlocksView(r)
	w.Header().Set(config.HETag, util.ContentHashString(fmt.Sprintf("%d:%t:%s", view.Version, view.Editing, view.SyntaxTheme)))
	h.render(w, r, config.TemplateNameBlocks, view)
}

func (h *Handler) ToggleEditMode(w http.ResponseWriter, r *http.Request) {
	h.store.ToggleEditMode()
	if !isHTMX(r) {
		http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
		return
	}
	h.render(w, r, config.TemplateNameMain, h.PageView(r))
}

func (h *Handler) ToggleAddMenu(w http.ResponseWriter, r *http.Request) {
	h.store.ToggleAddMenu()
	h.respond(w, r)
}

func (h *Handler) CloseAddMenu(w http.ResponseWriter, r *http.Request) {
	h.store.CloseAddMenu()
	h.respond(w, r)
}

func (h *Handler) AddBlock(w http.ResponseWriter, r *http.Request) {
	variant, err := model.ParseVariant(r.FormValue("variant"))
	if err != nil {
		http.Error(w, config.ErrUnknownVariant, http.StatusBadRequest)
		return
	}
	if _, err := h.store.Add(variant); err != nil {
		http.Error(w, config.ErrUnknownVariant, http.StatusBadRequest)
		return
	}
	h.respond(w, r)
}

func (h *Handler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	h.store.Delete(blockID(r))
	h.respond(w, r)
}

// UpdateFields applies every posted field to the block. A blur that sends the
// unchanged text is a no-op in the store.
func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, config.ErrInvalidForm, http.StatusBadRequest)
		return
	}

	patch := make(model.Patch, len(r.PostForm))
	for name := range r.PostForm {
		field, err := model.ParseField(name)
		if err != nil {
			http.Error(w, config.ErrInvalidField, http.StatusBadRequest)
			return
		}
		patch[field] = r.PostForm.Get(name)
	}

	if err := h.store.Update(blockID(r), patch); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("Rejected block update")
		http.Error(w, config.ErrInvalidField, http.StatusBadRequest)
		return
	}
	h.respond(w, r)
}

func (h *Handler) MoveBlock(w http.ResponseWriter, r *http.Request) {
	direction, err := ParseDirection(r.FormValue("direction"))
	if err != nil {
		http.Error(w, config.ErrUnknownDirection, http.StatusBadRequest)
		return
	}
	if err := h.store.Move(blockID(r), direction); err != nil {
		http.Error(w, config.ErrUnknownDirection, http.StatusBadRequest)
		return
	}
	h.respond(w, r)
}

// UploadImage reads the multipart "file" part. No file, or a file that is not
// an image, leaves the block as it was without telling the user.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, config.ErrUploadTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, config.ErrInvalidUpload, http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		h.respond(w, r)
		return
	}
	if err != nil {
		http.Error(w, config.ErrInvalidUpload, http.StatusBadRequest)
		return
	}
	defer file.Close()

	err = h.store.SetImage(r.Context(), blockID(r), file, header.Filename)
	switch {
	case err == nil:
		h.respond(w, r)
	case errors.Is(err, ErrNotImage):
		log.Debug().Str("filename", header.Filename).Msg("Ignored upload that is not an image")
		h.respond(w, r)
	case errors.Is(err, model.ErrFieldNotApplicable):
		http.Error(w, config.ErrInvalidField, http.StatusBadRequest)
	default:
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store image")
		h.respond(w, r, notify.Error(MsgImageFailed))
	}
}

func (h *Handler) ClearImage(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearImage(blockID(r)); err != nil {
		http.Error(w, config.ErrInvalidField, http.StatusBadRequest)
		return
	}
	h.respond(w, r)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, toasts ...notify.Toast) {
	if !isHTMX(r) {
		http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
		return
	}
	if !h.render(w, r, config.TemplateNameBlocks, h.BlocksView(r)) {
		return
	}
	if err := notify.Render(w, h.tmpl, toasts...); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error rendering toast")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) bool {
	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("Error rendering editor")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return false
	}
	return true
}

func blockID(r *http.Request) model.BlockID {
	return model.BlockID(chi.URLParam(r, "id"))
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get(config.HHxRequest) == "true"
}
