// A simple HTTP server (built on net/http) and some utilities for it.

package httpsrv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nathan-JzSu/qwt/util/status"
)

const (
	serverShutdownTimeoutSec = 10
)

type Server struct {
	verbose bool
	port    int
	handler http.Handler
	failed  func(error)
	stop    chan bool
	server  *http.Server
}

// Create a server that will be listening on `port` and dispatching to `handler`.  It will call
// `failed` if the server returns a failure code.  The server is not started by this.

func New(verbose bool, port int, handler http.Handler, failed func(error)) *Server {
	return &Server{
		verbose: verbose,
		port:    port,
		handler: handler,
		failed:  failed,
		stop:    make(chan bool, 1),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start the server.  This blocks the current goroutine until the server exits, so typical usage
// would be `go s.Start()`.  To force the server to shut down, call s.Stop().

func (s *Server) Start() {
	log := status.Default()
	if s.verbose {
		log.Infof("Listening on port %d", s.port)
	}
	err := s.server.ListenAndServe()
	if err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("SERVER NOT RUNNING: %v", err)
			if s.failed != nil {
				s.failed(err)
			}
		} else {
			log.Info(err.Error())
		}
	}
	s.stop <- true
}

// Cause the server to shut down and wait for Start to return.

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeoutSec*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		status.Default().Warning(err.Error())
	}
	<-s.stop
}
