package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.GOOGLE_REDIRECT_URL,
		Scopes: []string{
			"openid",
			"email",
			"profile",
		},
		Endpoint: google.Endpoint,
	}
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GET /auth/google
func GoogleStart(c *gin.Context) {
	if !googleConfigured() {
		apperr.Write(c, apperr.Unavailable("Google sign-in is not configured"))
		return
	}
	state, err := randomState()
	if err != nil {
		apperr.Write(c, err)
		return
	}

	// state lives in an HttpOnly cookie for five minutes
	c.SetCookie("oauth_state", state, 300, "/", "", config.APP_ENV == "production", true)

	url := googleOAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOnline)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/google/callback
func GoogleCallback(c *gin.Context) {
	if !googleConfigured() {
		apperr.Write(c, apperr.Unavailable("Google sign-in is not configured"))
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if code == "" || state == "" {
		apperr.Write(c, apperr.BadRequest("invalid_oauth", "missing code/state"))
		return
	}

	cookieState, err := c.Cookie("oauth_state")
	if err != nil || cookieState != state {
		apperr.Write(c, apperr.BadRequest("invalid_oauth", "invalid oauth state"))
		return
	}

	tok, err := googleOAuthConfig().Exchange(c.Request.Context(), code)
	if err != nil {
		log.Warn("google code exchange failed", "err", err)
		apperr.Write(c, apperr.Unauthorized("failed to exchange code"))
		return
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		apperr.Write(c, apperr.Unauthorized("missing id_token"))
		return
	}

	claims, err := verifyGoogleIDToken(c.Request.Context(), rawIDToken)
	if err != nil {
		apperr.Write(c, apperr.Unauthorized(err.Error()))
		return
	}

	user, err := findOrCreateGoogleUser(claims)
	if err != nil {
		apperr.Write(c, err)
		return
	}

	tokenString, err := issueAppJWT(user)
	if err != nil {
		apperr.Write(c, err)
		return
	}

	redirect := config.GOOGLE_FRONTEND_REDIRECT
	if redirect == "" {
		c.JSON(http.StatusOK, gin.H{"token": tokenString})
		return
	}
	c.Redirect(http.StatusFound, redirect+"?token="+url.QueryEscape(tokenString))
}

func googleConfigured() bool {
	return config.GOOGLE_CLIENT_ID != "" && config.GOOGLE_CLIENT_SECRET != ""
}

// googleProvider fetches Google's discovery document once per process.
var googleProvider = sync.OnceValues(func() (*oidc.Provider, error) {
	return oidc.NewProvider(context.Background(), "https://accounts.google.com")
})

type googleIDClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	Iss           string `json:"iss"`
	Aud           string `json:"aud"`
	Exp           int64  `json:"exp"`
	Iat           int64  `json:"iat"`
}

// verifyGoogleIDToken checks the signature, audience and expiry of the ID
// token and returns its claims.
func verifyGoogleIDToken(ctx context.Context, rawIDToken string) (*googleIDClaims, error) {
	provider, err := googleProvider()
	if err != nil {
		return nil, errors.New("failed to init google oidc provider")
	}

	verifier := provider.Verifier(&oidc.Config{
		ClientID: config.GOOGLE_CLIENT_ID,
	})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.New("invalid id_token")
	}

	var claims googleIDClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.New("failed to decode token claims")
	}

	if claims.Email == "" || claims.Sub == "" {
		return nil, errors.New("token missing required claims")
	}

	return &claims, nil
}

func findOrCreateGoogleUser(gc *googleIDClaims) (users.User, error) {
	var user users.User

	if gc.Sub != "" {
		if err := database.DB.Where("google_sub = ?", gc.Sub).First(&user).Error; err == nil {
			return user, nil
		}
	}

	// an existing local account is linked on first Google sign-in
	if err := database.DB.Where("email = ?", normalizeEmail(gc.Email)).First(&user).Error; err == nil {
		if user.GoogleSub == nil {
			sub := gc.Sub
			user.GoogleSub = &sub
			user.AuthProvider = "google"
			user.IsVerified = true
			if err := database.DB.Save(&user).Error; err != nil {
				return users.User{}, err
			}
		}
		return user, nil
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, trialDays)
	sub := gc.Sub

	user = users.User{
		Name:         firstNonEmpty(gc.GivenName, gc.Name),
		Lastname:     gc.FamilyName,
		Email:        normalizeEmail(gc.Email),
		Password:     nil,
		AuthProvider: "google",
		GoogleSub:    &sub,
		Role:         users.RoleUser,
		IsVerified:   true,
		TrialStartAt: &now,
		TrialEndAt:   &trialEnd,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return users.User{}, err
	}
	return user, nil
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}
