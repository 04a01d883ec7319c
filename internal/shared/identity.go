package shared

import (
	"context"
	"net/http"
	"strconv"
)

// Actor identifies who is performing a request. Authentication itself is an
// upstream concern; the gateway forwards the resolved identity in headers
// and every save path receives the actor as an explicit value rather than
// reaching into ambient state.
type Actor struct {
	UserID int64
	Name   string
}

type actorContextKey struct{}

// ContextWithActor stores the actor in context.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext extracts the actor from context. The zero Actor is
// returned for unattributed requests.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorContextKey{}).(Actor)
	return actor
}

// ActorMiddleware reads the forwarded identity headers into the request
// context.
func ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := Actor{Name: r.Header.Get("X-Actor-Name")}
		if v := r.Header.Get("X-Actor-ID"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				actor.UserID = id
			}
		}
		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), actor)))
	})
}
