package api

import (
	"encoding/json"
	"net/http"

	domainerrors "github.com/earmarkapp/earmark-server/internal/errors"
)

// decodeJSON reads the request body into dest, returning a coded
// validation error on malformed input.
func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return domainerrors.InvalidSessionData("invalid request body").WithCause(err)
	}
	return nil
}
