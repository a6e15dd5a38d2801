package handlers

import (
	"net/http"
	"strings"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
)

// Identity is the caller as asserted by the gateway. The gateway verifies
// the JWT and forwards the subject and role as headers; services never see
// raw tokens.
type Identity struct {
	UserID string
	Role   auth.Role
}

func identityFrom(r *http.Request) (Identity, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	role, err := auth.ParseRole(strings.TrimSpace(r.Header.Get("X-Role")))
	if userID == "" || err != nil {
		return Identity{}, false
	}
	return Identity{UserID: userID, Role: role}, true
}
