package auth

import (
	"context"
	"net/http"
	"strings"

	"itsm-desk/core/utils"
)

type ctxKey string

const ActorContextKey ctxKey = "itsm_actor"

const (
	RoleHeader = "X-ITSM-Role"
	UserHeader = "X-ITSM-User"

	AnonymousUser = "anonymous"
)

// Actor is the caller as the client declares it. Nothing here is verified:
// the role is a UI flag, not a credential.
type Actor struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (a *Actor) Name() string {
	if a == nil || a.Username == "" {
		return AnonymousUser
	}
	return a.Username
}

// ActorFromRequest reads the role and user headers. A missing role falls
// back to defaultRole.
func ActorFromRequest(r *http.Request, defaultRole string) *Actor {
	roles := []string{}
	for _, role := range utils.SplitCSV(r.Header.Get(RoleHeader)) {
		roles = append(roles, strings.ToLower(role))
	}
	if len(roles) == 0 && strings.TrimSpace(defaultRole) != "" {
		roles = append(roles, strings.ToLower(strings.TrimSpace(defaultRole)))
	}
	name := strings.TrimSpace(r.Header.Get(UserHeader))
	if name == "" {
		name = AnonymousUser
	}
	return &Actor{Username: name, Roles: roles}
}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, ActorContextKey, a)
}

func ActorFrom(ctx context.Context) *Actor {
	if a, ok := ctx.Value(ActorContextKey).(*Actor); ok && a != nil {
		return a
	}
	return nil
}
