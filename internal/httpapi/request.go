package httpapi

import (
	"encoding/json"
	"net/http"

	"flightcore/internal/apperr"
	"flightcore/internal/domain"
)

// decodeJSON decodes the request body into v, wrapping a malformed body as an
// InvalidArgument.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "malformed request body", err)
	}
	return nil
}

// actorFromRequest reads the caller's identity and role off request headers.
// Authentication itself is out of scope (spec.md §1 excludes auth/OTP
// flows); this core only needs the authenticated identity an upstream
// gateway would already have attached.
func actorFromRequest(r *http.Request) domain.User {
	return domain.User{
		Email: r.Header.Get("X-User-Email"),
		Role:  domain.Role(r.Header.Get("X-User-Role")),
		Name:  r.Header.Get("X-User-Name"),
	}
}
