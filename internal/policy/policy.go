// Package policy holds the project status pipeline and the per-role rules for
// moving a project through it. It is deliberately free of HTTP and database
// concerns so the transition table can be tested in isolation.
package policy

import "fmt"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMarca     Role = "marca"
	RoleDisenador Role = "diseñador"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleMarca, RoleDisenador:
		return true
	}
	return false
}

// AssignableRoles are the roles a user may pick for themselves after signup.
// Admin is never self-assignable.
var AssignableRoles = []Role{RoleMarca, RoleDisenador}

type Status string

const (
	StatusCreado     Status = "creado"
	StatusAsignado   Status = "asignado"
	StatusEnProgreso Status = "en_progreso"
	StatusEntregado  Status = "entregado"
	StatusAprobado   Status = "aprobado"
	StatusRechazado  Status = "rechazado"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusCreado,
	StatusAsignado,
	StatusEnProgreso,
	StatusEntregado,
	StatusAprobado,
	StatusRechazado,
}

func ValidStatus(s Status) bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses a role may set a project to at runtime.
// Marca never changes status after creation, so its set is empty here.
func AllowedTargets(role Role) []Status {
	switch role {
	case RoleAdmin:
		return []Status{StatusAsignado, StatusAprobado, StatusRechazado}
	case RoleDisenador:
		return []Status{StatusEnProgreso, StatusEntregado}
	}
	return nil
}

// TransitionRequest describes one attempted status change.
type TransitionRequest struct {
	Role      Role
	Current   Status
	Requested Status
	// AssignedDesigner reports whether the actor is the project's assigned
	// designer. Only consulted for diseñador in strict mode.
	AssignedDesigner bool
}

type Options struct {
	// Strict additionally checks admin transitions against the project's
	// current status and requires designers to own the assignment.
	Strict bool
}

// ViolationError reports a transition the policy refused. It never indicates
// an infrastructure failure; callers can rely on no mutation having happened.
type ViolationError struct {
	Role      Role
	Current   Status
	Requested Status
	Reason    string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("status transition to %q not permitted for role %q: %s", e.Requested, e.Role, e.Reason)
}

func violation(req TransitionRequest, reason string) error {
	return &ViolationError{Role: req.Role, Current: req.Current, Requested: req.Requested, Reason: reason}
}

// Validate checks one transition request against the role table and the
// pipeline ordering. A nil return means the transition may be persisted.
func Validate(req TransitionRequest, opts Options) error {
	if !ValidStatus(req.Requested) {
		return violation(req, "unknown status")
	}

	switch req.Role {
	case RoleAdmin:
		if !inSet(req.Requested, AllowedTargets(RoleAdmin)) {
			return violation(req, "admins may only set asignado, aprobado or rechazado")
		}
		if opts.Strict {
			switch req.Requested {
			case StatusAsignado:
				if req.Current != StatusCreado {
					return violation(req, "projects can only be assigned from creado")
				}
			case StatusAprobado, StatusRechazado:
				if req.Current != StatusEntregado {
					return violation(req, "projects can only be resolved from entregado")
				}
			}
		}
		return nil

	case RoleDisenador:
		if !inSet(req.Requested, AllowedTargets(RoleDisenador)) {
			return violation(req, "designers may only set en_progreso or entregado")
		}
		if opts.Strict && !req.AssignedDesigner {
			return violation(req, "project is assigned to a different designer")
		}
		// The designer path never skips a stage
		switch req.Requested {
		case StatusEnProgreso:
			if req.Current != StatusAsignado {
				return violation(req, "work can only start on an assigned project")
			}
		case StatusEntregado:
			if req.Current != StatusEnProgreso {
				return violation(req, "only in-progress projects can be delivered")
			}
		}
		return nil
	}

	return violation(req, "role cannot change project status")
}

func inSet(s Status, set []Status) bool {
	for _, allowed := range set {
		if s == allowed {
			return true
		}
	}
	return false
}
