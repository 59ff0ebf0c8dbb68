package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFromRequestHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set(RoleHeader, " Admin ")
	req.Header.Set(UserHeader, "alice")
	a := ActorFromRequest(req, "user")
	assert.Equal(t, "alice", a.Username)
	assert.Equal(t, []string{"admin"}, a.Roles)
}

func TestActorFromRequestDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/me", nil)
	a := ActorFromRequest(req, "user")
	assert.Equal(t, AnonymousUser, a.Name())
	assert.Equal(t, []string{"user"}, a.Roles)
}

func TestActorContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ActorFrom(ctx))
	var missing *Actor
	assert.Equal(t, AnonymousUser, missing.Name())
	a := &Actor{Username: "bob", Roles: []string{"user"}}
	assert.Same(t, a, ActorFrom(WithActor(ctx, a)))
}
