package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/the-showcase/internal/auth"
	"github.com/debemdeboas/the-showcase/internal/cache"
	"github.com/debemdeboas/the-showcase/internal/config"
	"github.com/debemdeboas/the-showcase/internal/db"
	"github.com/debemdeboas/the-showcase/internal/forms"
	"github.com/debemdeboas/the-showcase/internal/logger"
	"github.com/debemdeboas/the-showcase/internal/model"
	"github.com/debemdeboas/the-showcase/internal/render"
	"github.com/debemdeboas/the-showcase/internal/repository"
	"github.com/debemdeboas/the-showcase/internal/repository/editor"
	"github.com/debemdeboas/the-showcase/internal/routes"
	"github.com/debemdeboas/the-showcase/internal/sse"
	"github.com/debemdeboas/the-showcase/internal/theme"
	"github.com/debemdeboas/the-showcase/internal/util"
	"github.com/debemdeboas/the-showcase/internal/util/compression"
	"github.com/debemdeboas/the-showcase/internal/view"
)

//go:embed static/* templates/*
var content embed.FS

// Environment variables holding secrets. Everything else lives in config.yaml.
const (
	envConfigPath     = "SHOWCASE_CONFIG"
	envEd25519PubKey  = "ED25519_PUBKEY"
	envClerkKey       = "CLERK_API"
	envClerkSignIn    = "CLERK_SIGN_IN_URL"
	envClerkOperators = "CLERK_OPERATORS"
	envS3KeyID        = "S3_ACCESS_KEY_ID"
	envS3Secret       = "S3_SECRET_ACCESS_KEY"
)

// Operator id for the Ed25519 key holder.
const ed25519Operator model.UserID = "admin"

func main() {
	bootLog := logger.New("info")
	if err := godotenv.Load(); err != nil {
		bootLog.Debug().Err(err).Msg("No .env file loaded")
	}

	config.SetLogger(bootLog)
	configPath := os.Getenv(envConfigPath)
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := config.LoadConfig(configPath); err != nil {
		bootLog.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}

	log := logger.New(config.AppConfig.Logging.Level)
	setLoggers(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := newApp(ctx, config.AppConfig, content)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer cleanup()

	addr := config.AppConfig.Server.Host + ":" + config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.routes(log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Str("addr", addr).Msg("Server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l)
	repository.SetLogger(l)
	editor.SetLogger(l)
	render.SetLogger(l)
	auth.SetLogger(l)
}

type app struct {
	tmpl    *template.Template
	static  fs.FS
	store   *editor.Store
	editor  *editor.Handler
	forms   *forms.Handler
	auth    auth.AuthProvider
	ed25519 *auth.Ed25519AuthProvider
	clients *sse.SSEClients
	uploads string
}

// newApp wires the editor, forms and auth from cfg. The returned cleanup
// closes the submission database, if one was opened.
func newApp(ctx context.Context, cfg *config.Config, assets fs.FS) (*app, func(), error) {
	cleanup := func() {}

	tmpl, err := view.New(assets)
	if err != nil {
		return nil, cleanup, err
	}
	static, err := fs.Sub(assets, config.StaticLocalDir)
	if err != nil {
		return nil, cleanup, err
	}
	hashStatic(static)

	seed, err := editor.LoadSeed(cfg.Content.SeedFile)
	if err != nil {
		return nil, cleanup, err
	}

	a := &app{
		tmpl:    tmpl,
		static:  static,
		clients: sse.NewSSEClients(),
	}

	encoder, err := a.newImageEncoder(ctx, cfg.Uploads)
	if err != nil {
		return nil, cleanup, err
	}
	a.store = editor.NewStore(seed, editor.WithEncoder(encoder))
	a.store.Subscribe(func(version uint64) {
		a.clients.Broadcast(sse.Event{Name: "changed", Data: strconv.FormatUint(version, 10)})
	})

	var repo repository.SubmissionRepository
	if cfg.Forms.Backend == config.FormsBackendSQLite {
		sqlite := db.NewSQLite(cfg.Storage.DatabasePath)
		if err := sqlite.InitDB(); err != nil {
			return nil, cleanup, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
		}
		cleanup = func() { _ = sqlite.Close() }

		compressor, err := compression.ForName(cfg.Storage.Compression)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		repo = repository.NewDBSubmissionRepository(sqlite, compressor)
	}

	submitter, err := forms.NewSubmitter(cfg.Forms, repo)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	a.forms = forms.NewHandler(submitter, tmpl)

	if err := a.newAuthProvider(cfg.Features.Authentication); err != nil {
		cleanup()
		return nil, func() {}, err
	}
	a.editor = editor.NewHandler(a.store, a.auth, tmpl, cfg.Uploads.MaxBytes)

	return a, cleanup, nil
}

func (a *app) newImageEncoder(ctx context.Context, cfg config.UploadsConfig) (editor.ImageEncoder, error) {
	switch cfg.Backend {
	case config.UploadsBackendFS:
		store, err := repository.NewFSImageStore(cfg.Dir, config.UploadsUrlPath)
		if err != nil {
			return nil, err
		}
		a.uploads = store.Dir()
		return store, nil
	case config.UploadsBackendS3:
		return repository.NewS3ImageStore(ctx,
			os.Getenv(envS3KeyID),
			os.Getenv(envS3Secret),
			cfg.Endpoint,
			cfg.Bucket,
			cfg.PublicBaseURL,
		)
	default:
		return editor.DataURIEncoder{}, nil
	}
}

func (a *app) newAuthProvider(cfg config.AuthConfig) error {
	if !cfg.Enabled {
		a.auth = auth.OpenProvider{}
		return nil
	}

	switch cfg.Type {
	case config.AuthTypeClerk:
		var operators []model.UserID
		for _, id := range strings.Split(os.Getenv(envClerkOperators), ",") {
			if id = strings.TrimSpace(id); id != "" {
				operators = append(operators, model.UserID(id))
			}
		}
		a.auth = auth.NewClerkAuthProvider(os.Getenv(envClerkKey), os.Getenv(envClerkSignIn), operators...)
	default:
		provider, err := auth.NewEd25519AuthProvider(os.Getenv(envEd25519PubKey), "Authorization", ed25519Operator)
		if err != nil {
			return fmt.Errorf(config.ErrCreateProviderFmt, err)
		}
		a.auth = provider
		a.ed25519 = provider
	}
	return nil
}

// hashStatic records a content hash per static file for the ETag header.
func hashStatic(static fs.FS) {
	_ = fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return nil
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		return nil
	})
}

func (a *app) routes(log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)
	r.Use(cacheIt)
	r.Use(a.auth.WithHeaderAuthorization())

	r.Get(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	r.Group(func(r chi.Router) {
		r.Use(secureHeaders)

		r.Handle(config.StaticUrlPath+"*", http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(a.static))))
		if a.uploads != "" {
			r.Handle(config.UploadsUrlPath+"*", http.StripPrefix(config.UploadsUrlPath, http.FileServer(http.Dir(a.uploads))))
		}

		r.Get(routes.RootPath, a.serveIndex)
		r.Post(routes.ThemeToggle, serveThemeToggle)
		r.Post(routes.SyntaxThemeSet, serveSyntaxThemeSet)
		r.Get(routes.SyntaxThemeGet, serveSyntaxThemeGet)
		r.Get(routes.SSEPath, a.clients.ServeHTTP)

		a.editor.Routes(r)
		a.forms.Routes(r)
		if a.ed25519 != nil {
			auth.RegisterEd25519AuthRoutes(r, a.ed25519, a.tmpl)
		}
	})

	return r
}

type indexData struct {
	editor.PageView
	Contact    forms.FormView
	Newsletter forms.FormView
}

func (a *app) serveIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{PageView: a.editor.PageView(r)}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, util.ContentHashString(fmt.Sprintf("%s:%s:%d:%t",
		data.Theme, data.SyntaxTheme, data.Editor.Version, data.Editor.Editing)))

	if err := a.tmpl.ExecuteTemplate(w, config.TemplateNameLayout, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Error rendering page")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
	}
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.NextTheme(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:  config.CookieTheme,
		Value: newTheme,
		Path:  "/",
	})

	syntaxTheme := theme.GetDefaultSyntaxTheme(newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil {
		syntaxTheme = cookie.Value
	}

	w.Header().Set(config.HHxTrigger, fmt.Sprintf(`{"themeChanged":{"value":%q,"syntaxTheme":%q}}`, newTheme, syntaxTheme))
	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

func serveSyntaxThemeSet(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("syntax-theme-select")
	if !theme.IsSyntaxTheme(name) {
		http.Error(w, config.ErrUnknownSyntaxTheme, http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieSyntaxTheme,
		Value:    name,
		Path:     "/",
		HttpOnly: true,
	})
	writeSyntaxCSS(w, name)
}

func serveSyntaxThemeGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "theme")
	if !theme.IsSyntaxTheme(name) {
		http.NotFound(w, r)
		return
	}
	writeSyntaxCSS(w, name)
}

func writeSyntaxCSS(w http.ResponseWriter, name string) {
	themeStyle := []byte(theme.GenerateSyntaxCSS(name))
	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}

func cacheIt(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		next.ServeHTTP(w, r)
	})
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		next.ServeHTTP(w, r)
	})
}
