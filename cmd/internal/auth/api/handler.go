package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"auth/cmd/identity"
	"auth/cmd/internal/auth/authn"
	"auth/cmd/internal/auth/session"
	"auth/cmd/internal/httperr"
	"auth/cmd/security/password"
)

// Deps are the collaborators the auth endpoints orchestrate.
type Deps struct {
	Store    identity.Store
	Hasher   identity.PasswordHasher
	Password password.Config
	Codec    session.Codec
	Carrier  session.Carrier
}

// Handler wires HTTP auth endpoints to the credential store and session codec.
type Handler struct {
	log *slog.Logger
	cfg Config

	store    identity.Store
	hasher   identity.PasswordHasher
	pwCfg    password.Config
	codec    session.Codec
	carrier  session.Carrier
	events   EventRecorder
	now      func() time.Time

	dummyHash string
}

// HandlerOption configures optional auth handler dependencies.
type HandlerOption func(*Handler)

// WithEventRecorder overrides the default no-op event recorder.
func WithEventRecorder(rec EventRecorder) HandlerOption {
	return func(h *Handler) {
		if h == nil || rec == nil {
			return
		}
		h.events = rec
	}
}

// WithClock overrides the time source used when issuing tokens.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if h == nil || now == nil {
			return
		}
		h.now = now
	}
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, deps Deps, opts ...HandlerOption) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	switch {
	case deps.Store == nil:
		return nil, errors.New("authapi: nil store")
	case deps.Hasher == nil:
		return nil, errors.New("authapi: nil hasher")
	case deps.Codec == nil:
		return nil, session.ErrSigningKeyMissing
	case deps.Carrier == nil:
		return nil, errors.New("authapi: nil carrier")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	h := &Handler{
		log:     log,
		cfg:     cfg,
		store:   deps.Store,
		hasher:  deps.Hasher,
		pwCfg:   deps.Password,
		codec:   deps.Codec,
		carrier: deps.Carrier,
		events:  noopRecorder{},
		now:     func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(h)
	}

	// Dummy hash for timing-resistant signin checks.
	hash, err := h.hasher.Hash("dummy-password-for-timing-only")
	if err != nil {
		return nil, err
	}
	h.dummyHash = hash

	return h, nil
}

// Register wires auth routes onto r under cfg.RoutePrefix.
//
// Every route runs behind the identity resolver; /me additionally requires one.
func (h *Handler) Register(r chi.Router) {
	if h == nil || r == nil {
		return
	}

	routes := func(r chi.Router) {
		r.Use(authn.Resolver(h.carrier, h.codec, h.log))

		r.Post("/signup", h.handleSignup)
		r.Post("/signin", h.handleSignin)
		r.Post("/signout", h.handleSignout)
		r.Post("/currentuser", h.handleCurrentUser)
		r.Get("/currentuser", h.handleCurrentUser)

		r.With(authn.RequireAuth()).Get("/me", h.handleMe)
	}

	if h.cfg.RoutePrefix == "" {
		r.Group(routes)
		return
	}
	r.Route(h.cfg.RoutePrefix, routes)
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.audit(r, actionSignup, resultInvalidInput, "")
		httperr.Write(w, bodyError(err))
		return
	}

	// Email is an exact-match key: padded input fails validation rather than
	// being rewritten.
	email := string(req.Email)
	pw := strings.TrimSpace(string(req.Password))
	if items := validateSignup(email, pw, h.pwCfg); len(items) > 0 {
		h.audit(r, actionSignup, resultInvalidInput, "")
		httperr.Write(w, httperr.Validation(items...))
		return
	}

	u, err := h.store.Create(r.Context(), identity.CreateUserInput{
		Email:    email,
		Password: pw,
		Now:      h.now(),
	})
	if err != nil {
		if identity.IsDuplicateEmail(err) {
			h.audit(r, actionSignup, resultEmailInUse, "")
			httperr.Write(w, httperr.BadRequest(msgEmailInUse))
			return
		}
		h.internalError(w, r, actionSignup, createFailureEvent(err), err)
		return
	}

	if !h.startSession(w, r, actionSignup, u) {
		return
	}

	h.audit(r, actionSignup, resultSuccess, u.ID)
	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		h.audit(r, actionSignin, resultInvalidInput, "")
		httperr.Write(w, bodyError(err))
		return
	}

	email := string(req.Email)
	pw := strings.TrimSpace(string(req.Password))
	if items := validateSignin(email, pw); len(items) > 0 {
		h.audit(r, actionSignin, resultInvalidInput, "")
		httperr.Write(w, httperr.Validation(items...))
		return
	}

	u, found, err := h.store.FindByEmail(r.Context(), email)
	if err != nil {
		h.internalError(w, r, actionSignin, "auth.signin.lookup.fail", err)
		return
	}
	if !found {
		// Timing resistance: perform a dummy verify when user is missing.
		_ = h.hasher.Verify(h.dummyHash, pw)
		h.audit(r, actionSignin, resultUnknownEmail, "")
		httperr.Write(w, httperr.BadRequest(msgInvalidCredentials))
		return
	}

	if !h.hasher.Verify(u.PasswordHash, pw) {
		h.audit(r, actionSignin, resultBadPassword, u.ID)
		httperr.Write(w, httperr.BadRequest(msgInvalidCredentials))
		return
	}

	if !h.startSession(w, r, actionSignin, u) {
		return
	}

	h.audit(r, actionSignin, resultSuccess, u.ID)
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) handleSignout(w http.ResponseWriter, r *http.Request) {
	h.carrier.Clear(w)

	var userID string
	if id, ok := authn.FromContext(r.Context()); ok {
		userID = id.ID
	}
	h.audit(r, actionSignout, resultSuccess, userID)
	writeJSON(w, http.StatusOK, emptyResponse{})
}

// handleCurrentUser reflects the resolved identity; anonymous callers get null.
func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	var resp currentUserResponse
	if id, ok := authn.FromContext(r.Context()); ok {
		resp.CurrentUser = identityResponse(id)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := authn.FromContext(r.Context())

	u, found, err := h.store.FindByEmail(r.Context(), id.Email)
	if err != nil {
		h.internalError(w, r, actionMe, "auth.me.fail", err)
		return
	}
	// The token outlived its account (or the store was reset).
	if !found || u.ID != id.ID {
		h.audit(r, actionMe, resultUserMissing, id.ID)
		httperr.Write(w, httperr.Unauthorized())
		return
	}

	writeJSON(w, http.StatusOK, meResponse{User: toUserResponse(u)})
}

// startSession issues a token for u and binds it to the response.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, action string, u identity.User) bool {
	tok, err := h.codec.Issue(session.Claims{UserID: u.ID, Email: u.Email}, h.now())
	if err != nil {
		h.internalError(w, r, action, "auth."+action+".issue_session.fail", err)
		return false
	}
	h.carrier.Bind(w, tok)
	return true
}

// createFailureEvent names the log event for a Create error that is not a
// duplicate email. Input passed validation already, so each of these is a
// server fault; the event name says which kind.
func createFailureEvent(err error) string {
	switch {
	case identity.IsConflict(err):
		return "auth.signup.create.conflict"
	case identity.IsInvalidInput(err):
		return "auth.signup.create.rejected"
	default:
		return "auth.signup.create.fail"
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, action, event string, err error) {
	h.events.RecordAuthEvent(action, resultError)
	h.log.ErrorContext(r.Context(), event, "err", err)
	httperr.Write(w, httperr.Internal(err))
}
