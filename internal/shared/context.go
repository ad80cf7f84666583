package shared

import "context"

type actorContextKey struct{}

// ContextWithActor stores the resolved actor in the request context. Only
// the transport layer reads it back; services take the actor explicitly.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context. The second return is
// false when no auth middleware ran for the request.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}
