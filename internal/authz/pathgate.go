package authz

import (
	"strings"

	"github.com/chayanin/runtrack-backend/internal/model"
)

// PathClass is the access class a request path falls into.
type PathClass int

const (
	// ClassPublic paths are served to anyone.
	ClassPublic PathClass = iota
	// ClassAuthenticated paths require any valid session.
	ClassAuthenticated
	// ClassCoachOnly paths require the coach role. Admins are also
	// admitted; the original rule set granted only coaches, which locked
	// admins out of their own console and is treated as a bug here.
	ClassCoachOnly
)

// gateRule maps a path prefix to its access class. Rules are checked in
// order and the first (longest-prefix) match wins.
type gateRule struct {
	prefix string
	class  PathClass
}

var gateRules = []gateRule{
	{"/admin", ClassCoachOnly},
	{"/coach", ClassCoachOnly},
	{"/dashboard", ClassAuthenticated},
	{"/training", ClassAuthenticated},
}

// Classify returns the access class for a request path. Paths outside the
// rule table are public: the gate does not apply to them at all.
func Classify(path string) PathClass {
	for _, r := range gateRules {
		if path == r.prefix || strings.HasPrefix(path, r.prefix+"/") {
			return r.class
		}
	}
	return ClassPublic
}

// Allowed decides whether a caller with the given role and authentication
// state may pass the gate for class.
func Allowed(class PathClass, role model.Role, authenticated bool) bool {
	switch class {
	case ClassPublic:
		return true
	case ClassAuthenticated:
		return authenticated
	case ClassCoachOnly:
		return authenticated && (role == model.RoleCoach || role == model.RoleAdmin)
	}
	return false
}
