package session

import (
	"time"

	"github.com/TFMV/querylab/pkg/errors"
)

// Route names a view of the application.
type Route string

// Known routes.
const (
	RouteLogin    Route = "/login"
	RouteRegister Route = "/register"
	RouteQuery    Route = "/query"
	RouteCompare  Route = "/query/compare"
	RouteHistory  Route = "/history"
	RouteAdmin    Route = "/admin"
)

// Public reports whether the route is reachable without a session.
func (r Route) Public() bool {
	return r == RouteLogin || r == RouteRegister
}

// Authorize decides whether sess may open route at time now. Unknown routes
// are treated like authenticated ones.
func Authorize(sess *Session, route Route, now time.Time) error {
	if route.Public() {
		return nil
	}
	if sess == nil || !sess.Authenticated() || sess.Expired(now) {
		return errors.ErrUnauthorized
	}
	if route == RouteAdmin && !sess.IsAdmin() {
		return errors.ErrPermissionDenied
	}
	return nil
}

// Teardown returns the handler run on a 401: the in-memory session is
// cleared and the store forgotten. Store errors go to onErr when set.
func Teardown(sess *Session, store Store, onErr func(error)) func() {
	return func() {
		sess.Clear()
		if store == nil {
			return
		}
		if err := store.Clear(); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
