package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
)

// ErrMissingSubject indicates a verified token without a usable sub claim
var ErrMissingSubject = errors.New("token has no user subject")

// JWTAuthenticator verifies HS256 bearer tokens signed with secret and
// returns the user ID carried in the sub claim.
func JWTAuthenticator(secret []byte) AuthenticationFunc {
	tokenAuth := jwtauth.New("HS256", secret, nil)

	return func(r *http.Request) (uuid.UUID, error) {
		token, err := jwtauth.VerifyRequest(tokenAuth, r, jwtauth.TokenFromHeader)
		if err != nil {
			return uuid.Nil, err
		}
		if token == nil {
			return uuid.Nil, jwtauth.ErrNoTokenFound
		}
		userID, err := uuid.Parse(token.Subject())
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: %v", ErrMissingSubject, err)
		}
		return userID, nil
	}
}
