package handlers

import (
	"net/http"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/utils"
)

// identityFromRequest turns the Authorization header into the caller's
// presented identity. An absent or invalid token is simply an anonymous
// identity; the resolver decides what that is allowed to see.
func identityFromRequest(r *http.Request, secret string) access.Identity {
	claims, err := utils.VerifyToken(r, secret)
	if err != nil {
		return access.Identity{}
	}
	if session, err := utils.CandidateSessionFromClaims(claims); err == nil {
		return access.Identity{Session: session}
	}
	if userID, err := utils.GetUserIDFromClaims(claims); err == nil {
		return access.Identity{AccountID: userID}
	}
	return access.Identity{}
}

// requireAccount extracts the authenticated HR account or writes a 401.
func requireAccount(w http.ResponseWriter, r *http.Request, secret string) (string, bool) {
	identity := identityFromRequest(r, secret)
	if identity.AccountID == "" {
		utils.JSONError(w, http.StatusUnauthorized, "unauthenticated", "Sign in required")
		return "", false
	}
	return identity.AccountID, true
}
