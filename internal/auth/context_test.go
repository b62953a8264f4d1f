package auth

import (
	"context"
	"sync"
	"testing"
)

func TestActorRoundTrip(t *testing.T) {
	ctx := ContextWithActor(context.Background(), Actor{ID: "u1", Role: RoleManager, EmployeeID: "e1"})
	actor, ok := ActorFromContext(ctx)
	if !ok {
		t.Fatal("expected actor in context")
	}
	if actor.ID != "u1" || actor.Role != RoleManager || actor.EmployeeID != "e1" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestRequireActorUnbound(t *testing.T) {
	if _, err := RequireActor(context.Background()); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestActorsDoNotLeakAcrossContexts(t *testing.T) {
	// Two concurrent units of work each bind their own actor; neither must
	// observe the other's identity.
	var wg sync.WaitGroup
	for _, id := range []string{"u1", "u2", "u3", "u4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			ctx := ContextWithActor(context.Background(), Actor{ID: id, Role: RoleMember, EmployeeID: id})
			for i := 0; i < 100; i++ {
				actor, ok := ActorFromContext(ctx)
				if !ok || actor.ID != id {
					t.Errorf("actor leaked: want %s got %+v", id, actor)
					return
				}
			}
		}(id)
	}
	wg.Wait()
}
