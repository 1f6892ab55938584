// Package viewer identifies browser sessions so table state can be kept per
// viewer.
package viewer

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding the viewer session.
const SessionName = "leapdash"

const viewerKey = "viewer"

// Ensure returns the viewer id of the request, creating and saving a new
// session when the request has none.
func Ensure(store sessions.Store, w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode yields a fresh session; replace it.
	session, _ := store.Get(r, SessionName)
	if session == nil {
		return "", fmt.Errorf("session store returned no session")
	}

	if id, ok := session.Values[viewerKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	session.Values[viewerKey] = id
	if err := session.Save(r, w); err != nil {
		return "", fmt.Errorf("save viewer session: %w", err)
	}
	return id, nil
}

// ID returns the viewer id carried by the request without creating one.
func ID(store sessions.Store, r *http.Request) (string, bool) {
	session, err := store.Get(r, SessionName)
	if err != nil || session == nil {
		return "", false
	}
	id, ok := session.Values[viewerKey].(string)
	return id, ok && id != ""
}
