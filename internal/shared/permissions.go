package shared

import "fmt"

// Operation names the CRUD verbs the permission catalog covers.
type Operation string

const (
	OpCreate  Operation = "create"
	OpView    Operation = "view"
	OpUpdate  Operation = "update"
	OpDelete  Operation = "delete"
	OpRestore Operation = "restore"
	OpPurge   Operation = "purge"
	OpList    Operation = "list"
	OpCount   Operation = "count"
)

// Catalog entity names used to derive permission strings.
const (
	EntityDestination   = "destination"
	EntityAccommodation = "accommodation"
	EntityEvent         = "event"
	EntityPost          = "post"
	EntityTag           = "tag"
	EntityUser          = "user"
	EntityClient        = "client"
	EntitySubscription  = "subscription"
	EntityInvoice       = "invoice"
)

// Permission derives the canonical permission name for an operation on an
// entity type, e.g. "accommodation.create". Restore and purge reuse the
// delete permission and count the list permission.
func Permission(entity string, op Operation) string {
	switch op {
	case OpRestore, OpPurge:
		op = OpDelete
	case OpCount:
		op = OpList
	}
	return fmt.Sprintf("%s.%s", entity, op)
}

// PermPostModerate gates moderation-status changes on posts.
const PermPostModerate = "post.moderate"

// EntityScopes lists every permission for one entity type.
func EntityScopes(entity string) []string {
	return []string{
		Permission(entity, OpCreate),
		Permission(entity, OpView),
		Permission(entity, OpUpdate),
		Permission(entity, OpDelete),
		Permission(entity, OpList),
	}
}
