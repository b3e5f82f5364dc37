package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"

	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/db"
	"github.com/Nathan-JzSu/qwt/pages"
	"github.com/Nathan-JzSu/qwt/util/httpsrv"
	"github.com/Nathan-JzSu/qwt/util/process"
	"github.com/Nathan-JzSu/qwt/util/status"
)

var errServerFailed = errors.New("Server failed")

func (dc *DaemonCommand) Perform(_ context.Context, store *db.Store, _, stderr io.Writer) error {
	if err := status.Start(logTag); err != nil {
		return fmt.Errorf("FATAL ERROR: Failing to open logger: %w", err)
	}

	svc, err := NewService(pages.Open(store), dc.CacheEntries, dc.Verbose)
	if err != nil {
		return err
	}
	handler := httpsrv.RequireAuth(svc.Handler(), dc.authenticator, authRealm, dc.Verbose)

	var programFailed bool
	s := httpsrv.New(dc.Verbose, dc.Port, handler, func(err error) {
		programFailed = true
	})
	src := dc.Source(dc.Verbose)
	Log.Infof("Serving %d records from %s on port %d", store.Len(), src.Describe(), dc.Port)
	go s.Start()

	// Wait here until we're stopped by SIGHUP (manual) or SIGTERM (from OS during shutdown).
	process.WaitForSignal(syscall.SIGHUP, syscall.SIGTERM)

	s.Stop()
	if programFailed {
		fmt.Fprintln(stderr, "The server failed, see the syslog for details")
		return errServerFailed
	}
	return nil
}
