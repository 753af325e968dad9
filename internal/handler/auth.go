package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oathline/oathline/internal/config"
	"github.com/oathline/oathline/internal/ctxkeys"
	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthHandler struct {
	authService       *service.AuthService
	cfg               *config.Config
	googleOAuthConfig *oauth2.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Guest signs in anonymously: a fresh guest user with a session cookie.
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.SignInAnonymously()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.issueSession(w, user)
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	h.issueSession(w, user)
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	h.issueSession(w, user)
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// GoogleAuth redirects to the Google consent screen with a CSRF state cookie.
func (h *AuthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if h.cfg.GoogleClientID == "" {
		writeError(w, http.StatusNotImplemented, "google sign-in is not configured")
		return
	}

	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	url := h.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback exchanges the OAuth code, resolves the verified email to a
// user, and issues a session.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		writeError(w, http.StatusBadRequest, "oauth state validation failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing oauth code")
		return
	}

	token, err := h.googleOAuthConfig.Exchange(context.Background(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		writeError(w, http.StatusBadGateway, "oauth exchange failed")
		return
	}

	client := h.googleOAuthConfig.Client(context.Background(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		writeError(w, http.StatusBadGateway, "oauth exchange failed")
		return
	}
	defer resp.Body.Close()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		slog.Error("failed to decode google user info", "error", err)
		writeError(w, http.StatusBadGateway, "oauth exchange failed")
		return
	}

	user, err := h.authService.AuthenticateOAuth(userInfo.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.issueSession(w, user)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		return
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))
}

func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
