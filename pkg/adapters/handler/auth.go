package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/wadjakorntonsri/go-biolink/pkg/config"
	"github.com/wadjakorntonsri/go-biolink/pkg/ports"
)

const sessionCookieName = "auth_token"

type AuthHandler struct {
	auth         ports.AuthService
	oauthConfig  *oauth2.Config
	jwtSecret    []byte
	frontendURL  string
	isProduction bool
	log          zerolog.Logger
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, auth ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwtSecret:    []byte(cfg.JWTSecret),
		frontendURL:  cfg.FrontendURL,
		isProduction: cfg.AppEnv == "production",
		log:          log,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates the account plus its profile row and opens a session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.issueSession(w, profile.ID); err != nil {
		h.log.Error().Err(err).Msg("failed signing session token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("user_id", profile.ID).Str("username", profile.Username).Msg("account registered")
	writeJSON(w, http.StatusCreated, profile)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.issueSession(w, account.ID); err != nil {
		h.log.Error().Err(err).Msg("failed signing session token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("user_id", account.ID).Msg("login successful")
	writeJSON(w, http.StatusOK, map[string]string{"user_id": account.ID})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie("oauthstate")
	if err != nil {
		h.log.Warn().Err(err).Msg("callback missing oauthstate cookie")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		h.log.Warn().Msg("callback received invalid oauth state")
		http.Error(w, "invalid oauth google state", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.log.Error().Err(err).Msg("oauth code exchange failed")
		http.Error(w, "code exchange failed", http.StatusInternalServerError)
		return
	}

	response, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		h.log.Error().Err(err).Msg("failed getting user info")
		http.Error(w, "failed getting user info", http.StatusInternalServerError)
		return
	}
	defer response.Body.Close()

	var gu googleUser
	if err := json.NewDecoder(response.Body).Decode(&gu); err != nil {
		h.log.Error().Err(err).Msg("failed decoding user info")
		http.Error(w, "failed decoding user info", http.StatusInternalServerError)
		return
	}

	account, err := h.auth.EnsureAccount(r.Context(), gu.Email, gu.Name)
	if err != nil {
		h.log.Error().Err(err).Str("email", gu.Email).Msg("failed provisioning account")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.issueSession(w, account.ID); err != nil {
		h.log.Error().Err(err).Msg("failed signing session token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("user_id", account.ID).Msg("google login successful")
	http.Redirect(w, r, h.frontendURL, http.StatusTemporaryRedirect)
}

// issueSession mints the HS256 session token and sets the cookie. The JWT
// subject is the user id, which every repository operation is scoped to.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) error {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    tokenString,
		Expires:  expirationTime,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     "oauthstate",
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}
