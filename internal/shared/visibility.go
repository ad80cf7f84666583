package shared

// Visibility controls who may read an entity instance.
type Visibility string

const (
	// VisibilityPublic records are readable by anyone, including anonymous
	// callers.
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate records require the entity view permission or
	// ownership.
	VisibilityPrivate Visibility = "private"
	// VisibilityDraft records are unpublished and follow the private rules.
	VisibilityDraft Visibility = "draft"
)

// Known reports whether v is a recognised visibility value. Unknown values
// indicate a data-quality problem and are surfaced, never masked.
func (v Visibility) Known() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityDraft:
		return true
	}
	return false
}
