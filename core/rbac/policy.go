package rbac

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermAppView Permission = "app.view"

	PermServicesView   Permission = "services.view"
	PermServicesManage Permission = "services.manage"
	PermServicesDelete Permission = "services.delete"

	PermSLAsView   Permission = "slas.view"
	PermSLAsManage Permission = "slas.manage"

	PermIncidentsView   Permission = "incidents.view"
	PermIncidentsManage Permission = "incidents.manage"

	PermRequestsView   Permission = "requests.view"
	PermRequestsManage Permission = "requests.manage"

	PermAuditsView   Permission = "audits.view"
	PermAuditsManage Permission = "audits.manage"

	PermNonConformitiesView   Permission = "nonconformities.view"
	PermNonConformitiesManage Permission = "nonconformities.manage"

	PermRisksView   Permission = "risks.view"
	PermRisksManage Permission = "risks.manage"

	PermAssetsView   Permission = "assets.view"
	PermAssetsManage Permission = "assets.manage"

	PermProblemsView   Permission = "problems.view"
	PermProblemsManage Permission = "problems.manage"

	PermDashboardView   Permission = "dashboard.view"
	PermDashboardManage Permission = "dashboard.manage"

	PermReportsView   Permission = "reports.view"
	PermReportsExport Permission = "reports.export"

	PermAssistantUse Permission = "assistant.use"
	PermLogsView     Permission = "logs.view"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

func AllPermissions() []Permission {
	return []Permission{
		PermAppView,
		PermServicesView, PermServicesManage, PermServicesDelete,
		PermSLAsView, PermSLAsManage,
		PermIncidentsView, PermIncidentsManage,
		PermRequestsView, PermRequestsManage,
		PermAuditsView, PermAuditsManage,
		PermNonConformitiesView, PermNonConformitiesManage,
		PermRisksView, PermRisksManage,
		PermAssetsView, PermAssetsManage,
		PermProblemsView, PermProblemsManage,
		PermDashboardView, PermDashboardManage,
		PermReportsView, PermReportsExport,
		PermAssistantUse, PermLogsView,
	}
}

type Role struct {
	Name        string
	Inherits    []string
	Permissions []Permission
}

// DefaultRoles grants admin everything; user may view all modules and work
// the operational queues.
func DefaultRoles() []Role {
	return []Role{
		{
			Name: RoleUser,
			Permissions: []Permission{
				"*.view",
				PermDashboardManage,
				PermIncidentsManage,
				PermRequestsManage,
				PermRisksManage,
				PermProblemsManage,
				PermNonConformitiesManage,
				PermReportsExport,
				PermAssistantUse,
			},
		},
		{
			Name:        RoleAdmin,
			Inherits:    []string{RoleUser},
			Permissions: []Permission{"*"},
		},
	}
}

const modelText = `
[request_definition]
r = sub, act

[policy_definition]
p = sub, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && globMatch(r.act, p.act)
`

type Policy struct {
	enforcer *casbin.Enforcer
	roles    map[string]Role
}

func NewPolicy(roles []Role) (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	known := make(map[string]Role, len(roles))
	for _, role := range roles {
		known[role.Name] = role
		for _, perm := range role.Permissions {
			if _, err := e.AddPolicy(role.Name, string(perm)); err != nil {
				return nil, fmt.Errorf("rbac policy %s/%s: %w", role.Name, perm, err)
			}
		}
		for _, parent := range role.Inherits {
			if _, err := e.AddGroupingPolicy(role.Name, parent); err != nil {
				return nil, fmt.Errorf("rbac inherit %s<-%s: %w", role.Name, parent, err)
			}
		}
	}
	return &Policy{enforcer: e, roles: known}, nil
}

func (p *Policy) Allowed(roles []string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	for _, role := range roles {
		role = strings.ToLower(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		ok, err := p.enforcer.Enforce(role, string(perm))
		if err == nil && ok {
			return true
		}
	}
	return false
}

func (p *Policy) HasRole(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.roles[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Capabilities lists every known permission the roles hold.
func (p *Policy) Capabilities(roles []string) []Permission {
	var out []Permission
	for _, perm := range AllPermissions() {
		if p.Allowed(roles, perm) {
			out = append(out, perm)
		}
	}
	return out
}
