package handlers

import (
	"net/http"

	"itsm-desk/core/auth"
	"itsm-desk/core/rbac"
)

type MeHandler struct {
	policy  *rbac.Policy
	enforce bool
}

func NewMeHandler(policy *rbac.Policy, enforce bool) *MeHandler {
	return &MeHandler{policy: policy, enforce: enforce}
}

// Me reports the caller and what its roles allow. Capabilities are advisory
// unless roles are enforced.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	if actor == nil {
		actor = &auth.Actor{Username: auth.AnonymousUser, Roles: []string{}}
	}
	caps := h.policy.Capabilities(actor.Roles)
	if caps == nil {
		caps = []rbac.Permission{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          actor.Name(),
		"roles":         actor.Roles,
		"is_admin":      h.policy.Allowed(actor.Roles, "*"),
		"capabilities":  caps,
		"enforce_roles": h.enforce,
	})
}
