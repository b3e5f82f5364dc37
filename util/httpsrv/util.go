package httpsrv

import (
	"fmt"
	"net/http"

	"github.com/Nathan-JzSu/qwt/util/auth"
	"github.com/Nathan-JzSu/qwt/util/status"
)

// Given a (possibly nil) authenticator and a request, apply HTTP basic authentication for the given
// realm.  If the authentication fails then signal a 401 response and log the error.
//
// The realm name can be empty, in which case no further information is requested, the request will
// just fail.

func Authenticate(
	w http.ResponseWriter,
	r *http.Request,
	authenticator *auth.Authenticator,
	realm string,
	verbose bool,
) (bool, string) {
	user, pass, ok := r.BasicAuth()
	passed := authenticator == nil ||
		(ok && authenticator.Authenticate(user, pass))
	if !passed {
		if realm != "" {
			w.Header().Add("WWW-Authenticate", "Basic realm=\""+realm+"\", charset=\"utf-8\"")
		}
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintf(w, "Unauthorized")
		if verbose {
			status.Default().Warningf("Authorization failed for %s", r.URL.Path)
		}
		return false, ""
	}
	return true, user
}

// Wrap a handler so that every request must pass Authenticate first.  A nil authenticator lets
// everything through.

func RequireAuth(next http.Handler, authenticator *auth.Authenticator, realm string, verbose bool) http.Handler {
	if authenticator == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, _ := Authenticate(w, r, authenticator, realm, verbose); ok {
			next.ServeHTTP(w, r)
		}
	})
}
