package rest

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends an Authorization: Bearer header.
	AuthBearer
	// AuthBasic sends an HTTP Basic Authorization header.
	AuthBasic
	// AuthAPIKey sends an API key in a header or query parameter.
	AuthAPIKey
	// AuthCustom applies a caller-supplied request modifier.
	AuthCustom
)

const (
	// LocationHeader places an API key in a request header.
	LocationHeader = "header"
	// LocationQuery places an API key in a URL query parameter.
	LocationQuery = "query"

	defaultAPIKeyHeader = "X-API-Key"
)

// AuthConfig formats authentication onto outbound requests. It is pure
// header/query formatting; credential acquisition and verification live
// with the caller.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password are the basic auth credentials (AuthBasic).
	Username string
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In places the API key: LocationHeader (default) or LocationQuery
	// (AuthAPIKey).
	In string
	// Name is the header or query parameter name (AuthAPIKey).
	// Defaults to "X-API-Key".
	Name string
	// Apply is the request modifier (AuthCustom).
	Apply func(*http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via the X-API-Key header.
func APIKeyAuth(key string) *AuthConfig {
	return APIKeyAuthHeader(key, defaultAPIKeyHeader)
}

// APIKeyAuthHeader creates an API key auth config with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: LocationHeader, Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: LocationQuery, Name: paramName}
}

// CustomAuth creates an auth config from a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// apply formats the configured authentication onto req. A nil config and
// AuthNone are both no-ops.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		a.applyAPIKey(req)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}

// applyAPIKey places the key at the configured location, defaulting to the
// X-API-Key header when no name is set.
func (a *AuthConfig) applyAPIKey(req *http.Request) {
	name := a.Name
	if name == "" {
		name = defaultAPIKeyHeader
	}
	if a.In == LocationQuery {
		q := req.URL.Query()
		q.Set(name, a.Key)
		req.URL.RawQuery = q.Encode()
		return
	}
	req.Header.Set(name, a.Key)
}
