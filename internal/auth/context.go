package auth

import "context"

// Actor is the execution context of one conversational turn: the
// authenticated caller identity every tool invocation authorizes against.
// It is always passed through context, never stored in shared process state,
// so concurrent turns for different callers cannot observe each other.
type Actor struct {
	ID         string
	Role       Role
	EmployeeID string
}

type actorContextKey struct{}

// ContextWithActor attaches the authenticated actor to the context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, &actor)
}

// ActorFromContext extracts the authenticated actor from the context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	v, ok := ctx.Value(actorContextKey{}).(*Actor)
	if !ok || v == nil {
		return Actor{}, false
	}
	return *v, true
}

// RequireActor returns the actor or ErrUnauthenticated when none is bound.
func RequireActor(ctx context.Context) (Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	return actor, nil
}
