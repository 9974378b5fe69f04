package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"condo/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleAdmin, constant.RoleManager, constant.RoleStaff, constant.RoleUser}

// Permission is the access rule of one route pattern. Public routes set Skip, every other route
// lists the roles allowed through.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. A protected route without roles admits any
// signed-in caller.
func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	indexOnce sync.Once
	index     map[string]Permission
}

func routeKey(method, path string) string {
	return method + " " + path
}

// FindPermissions looks up the rule of a chi route pattern such as /v1/bookings/{id}. Unknown
// routes get the zero Permission, which still requires a token.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	r.indexOnce.Do(func() {
		r.index = make(map[string]Permission, len(r.Endpoints))
		for _, endpoint := range r.Endpoints {
			r.index[routeKey(endpoint.Method, endpoint.Path)] = endpoint
		}
	})

	return r.index[routeKey(method, path)]
}

// validate rejects tables naming roles the application does not issue, or listing a route twice.
func (r *PermissionData) validate() error {
	seen := make(map[string]struct{}, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate permission for %s", key)
		}

		seen[key] = struct{}{}

		for _, role := range endpoint.Permissions {
			if !slices.Contains(knownRoles, role) {
				return fmt.Errorf("unknown role %q on %s", role, key)
			}
		}
	}

	return nil
}

func Get() *PermissionData {
	var permissions PermissionData

	if err := json.Unmarshal(permissionsData, &permissions); err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	if err := permissions.validate(); err != nil {
		log.Err(err).Msg("Embedded permissions are invalid")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
