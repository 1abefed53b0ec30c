package cache

import (
	"net/http"

	"github.com/Richard-Sup-Dev/edda-sistema-sub002/internal/auth"
)

// AnonymousSubject partitions entries for requests without an identity.
const AnonymousSubject = "anonymous"

// KeyFunc derives the cache key for a request. A custom KeyFunc replaces
// the default scheme entirely.
type KeyFunc func(r *http.Request) string

// DefaultKey builds "cache:<path-and-query>:user:<subject>". The path and
// query come from the original request line, so handlers mounted under
// StripPrefix or gates that rewrite the query do not change the key.
func DefaultKey(r *http.Request) string {
	return "cache:" + originalURI(r) + ":user:" + Subject(r)
}

// Subject returns the authenticated user id, or AnonymousSubject.
func Subject(r *http.Request) string {
	if id := auth.GetIdentity(r.Context()); id != nil && id.UserID != "" {
		return id.UserID
	}
	return AnonymousSubject
}

func originalURI(r *http.Request) string {
	if r.RequestURI != "" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}
