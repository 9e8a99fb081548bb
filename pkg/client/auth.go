package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const authCookieName = "auth_token"

const authCookieTTL = 30 * 24 * time.Hour

// Auth wraps the auth endpoints with credential persistence. Signup and
// Login store the token and user on success; Logout always clears them,
// even when the server call fails.
type Auth struct {
	client *Client
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

func (a *Auth) Signup(ctx context.Context, email, password string) (User, error) {
	result, err := a.client.Signup(ctx, email, password)
	if err != nil {
		return User{}, err
	}

	a.persist(result)
	return result.User, nil
}

func (a *Auth) Login(ctx context.Context, email, password string) (User, error) {
	result, err := a.client.Login(ctx, email, password)
	if err != nil {
		return User{}, err
	}

	a.persist(result)
	return result.User, nil
}

// Logout revokes the server-side session. Local credentials are cleared
// regardless of the outcome so a dead server cannot pin the user to a
// stale session.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.client.Logout(ctx)

	a.client.creds.Clear()
	a.clearAuthCookie()

	return err
}

func (a *Auth) CurrentUser() *User {
	return a.client.creds.User()
}

func (a *Auth) IsAuthenticated() bool {
	return a.client.creds.Token() != ""
}

func (a *Auth) persist(result AuthResult) {
	a.client.creds.Set(result.Token, result.User)
	a.setAuthCookie(result.Token, time.Now().Add(authCookieTTL))
}

// The cookie mirrors the bearer token for same-site requests; the
// Authorization header remains the primary credential.
func (a *Auth) setAuthCookie(token string, expires time.Time) {
	jar := a.client.httpClient.Jar
	if jar == nil {
		return
	}

	base, err := url.Parse(a.client.baseURL)
	if err != nil {
		return
	}

	jar.SetCookies(base, []*http.Cookie{{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}})
}

func (a *Auth) clearAuthCookie() {
	a.setAuthCookie("", time.Now().Add(-time.Hour))
}
