package routegroups

import "net/http"

// Guards carries the permission middleware so route groups never register
// a bare handler.
type Guards struct {
	RequirePermission func(perm string) func(http.HandlerFunc) http.HandlerFunc
}

func (g Guards) ActorPerm(perm string, h http.HandlerFunc) http.HandlerFunc {
	return g.RequirePermission(perm)(h)
}
