// Package access decides whether an actor may perform an operation on an
// entity instance or entity class.
package access

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/meridian-travel/meridian/internal/shared"
)

// Subject is the slice of an entity instance the evaluator inspects. It is
// nil for class-level operations (create, list, count).
type Subject interface {
	Visibility() shared.Visibility
	OwnerID() uuid.UUID
}

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Evaluator applies the role and permission rules shared by every entity
// service.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// CanPerform decides whether actor may run op against the given entity
// type. subject carries the instance for instance-scoped operations and is
// nil for create/list/count.
//
// An unknown visibility value on the subject is a fatal condition: the
// evaluator returns an error rather than silently denying or allowing, so
// bad data surfaces instead of hiding behind a 403.
func (e *Evaluator) CanPerform(actor shared.Actor, entity string, op shared.Operation, subject Subject) (Decision, error) {
	if subject != nil && !subject.Visibility().Known() {
		return Decision{}, fmt.Errorf("access: unknown visibility %q on %s", subject.Visibility(), entity)
	}

	if actor.IsAdmin() {
		return allow(), nil
	}

	switch op {
	case shared.OpView:
		return e.canView(actor, entity, subject), nil
	case shared.OpList, shared.OpCount:
		// Listing is open at the class level; per-record visibility is
		// enforced when individual results are filtered.
		return allow(), nil
	default:
		return e.canMutate(actor, entity, op, subject), nil
	}
}

func (e *Evaluator) canView(actor shared.Actor, entity string, subject Subject) Decision {
	if subject == nil {
		return allow()
	}
	if subject.Visibility() == shared.VisibilityPublic {
		return allow()
	}
	if !actor.IsAnonymous() && actor.ID == subject.OwnerID() {
		return allow()
	}
	if actor.HasPermission(shared.Permission(entity, shared.OpView)) {
		return allow()
	}
	return deny(fmt.Sprintf("%s is not visible to this actor", entity))
}

func (e *Evaluator) canMutate(actor shared.Actor, entity string, op shared.Operation, subject Subject) Decision {
	if actor.IsAnonymous() {
		return deny("anonymous actors cannot modify records")
	}
	if actor.HasPermission(shared.Permission(entity, op)) {
		return allow()
	}
	// Owners may update, soft-delete and restore their own records without
	// an explicit grant. Hard deletion always requires the permission.
	switch op {
	case shared.OpUpdate, shared.OpDelete, shared.OpRestore:
		if subject != nil && actor.ID == subject.OwnerID() {
			return allow()
		}
	}
	return deny(fmt.Sprintf("missing %s permission", shared.Permission(entity, op)))
}
