package authapi

import (
	"encoding/json"

	"auth/cmd/identity"
	"auth/cmd/internal/auth/authn"
)

type credentialsRequest struct {
	Email    fieldString `json:"email"`
	Password fieldString `json:"password"`
}

// fieldString accepts any JSON value. Only a JSON string is kept; a number,
// bool, object, array or null decodes to "" so field validation reports it
// alongside every other rule.
type fieldString string

func (f *fieldString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = ""
		return nil
	}
	*f = fieldString(s)
	return nil
}

// userResponse is the external representation of a user; it never carries
// the password hash.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type currentUserResponse struct {
	CurrentUser *userResponse `json:"currentUser"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

type emptyResponse struct{}

func toUserResponse(u identity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

func identityResponse(id authn.Identity) *userResponse {
	return &userResponse{ID: id.ID, Email: id.Email}
}
