// Package scope decides which owner's data an incoming request sees.
// The scheduling and storage layers are parameterized by an opaque scope
// string; the two resolvers here are the only places that produce one.
package scope

import (
	"fmt"
	"net/http"
	"strings"
)

// Resolver maps an incoming request to the owner scope its data lives in.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// Static always resolves to one shared scope. This is the no-auth
// deployment: everyone sees the same data set.
type Static struct {
	Name string
}

func (s Static) Resolve(*http.Request) (string, error) {
	return s.Name, nil
}

// Header reads the scope from a header set by an authenticating reverse
// proxy. Resolution fails when the header is missing, so an unauthenticated
// request can never fall through into a shared scope.
type Header struct {
	Name string
}

func (h Header) Resolve(r *http.Request) (string, error) {
	v := strings.TrimSpace(r.Header.Get(h.Name))
	if v == "" {
		return "", fmt.Errorf("scope: missing %s header", h.Name)
	}
	return v, nil
}
