// `qwt daemon` - HTTP server that answers dashboard queries against a loaded dataset
//
// The dataset is loaded once at startup from the data source options or the [data-source] section
// of the config file.  The server then responds to GET requests:
//
//   /pages                          pages, charts and the values of the query inputs
//   /pages/{page}/summary           summary statistics of a page
//   /pages/{page}/charts/{chart}    chart data of a page
//   /buckets                        the CPU bucket table
//   /buckets/{slots}                the bucket a core count falls into
//   /metrics                        Prometheus metrics
//   /openapi.json, /docs            the API description
//
// Query parameters have the names of the query options of `qwt summary`: year, month, day,
// job-type, cpu, queue, wait-min, wait-max, wait-unit.  Responses are JSON.  Identical requests are
// served from a cache of recent results.
//
// Arguments:
//
// -port <port-number>
//
//  Optional, the port number on which to listen, the default is 8088.
//
// -password-file <filename>
//
//  Optional, a file with username:password pairs, one per line, to be matched with values in an
//  incoming HTTP basic authentication header.
//
// -cache-entries <n>
//
//  Optional, the number of results to cache, the default is 1000.
//
// Termination:
//
//  Sending SIGHUP or SIGTERM to `qwt daemon` will shut it down in an orderly manner.
//
// Logging:
//
//  The daemon logs to the syslog with the tag defined below ("logTag").  Errors encountered during
//  startup are also logged to stderr.

package daemon

import (
	"errors"
	"fmt"
	"io"
	"path"

	. "github.com/Nathan-JzSu/qwt/cmd"
	. "github.com/Nathan-JzSu/qwt/common"
	"github.com/Nathan-JzSu/qwt/util/auth"
)

const (
	defaultListenPort = 8088
	logTag            = "qwt"
	authRealm         = "Queue waiting time"
)

type DaemonCommand struct {
	DevArgs
	VerboseArgs
	ConfigFileArgs
	SourceArgs

	Port         int
	PasswordFile string
	CacheEntries int

	authenticator *auth.Authenticator
}

var _ DatasetCommand = (*DaemonCommand)(nil)

func (dc *DaemonCommand) Add(fs *CLI) {
	dc.DevArgs.Add(fs)
	dc.VerboseArgs.Add(fs)
	dc.ConfigFileArgs.Add(fs)
	dc.SourceArgs.Add(fs)
	fs.Group("daemon-configuration")
	fs.IntVar(&dc.Port, "port", 0,
		fmt.Sprintf("Listen for connections on `port` [default: %d]", defaultListenPort))
	fs.StringVar(&dc.PasswordFile, "password-file", "",
		"Require HTTP basic authentication with the user:password pairs in this `filename`")
	fs.IntVar(&dc.CacheEntries, "cache-entries", 0,
		fmt.Sprintf("Cache this `number` of results [default: %d]", defaultCacheEntries))
}

func (dc *DaemonCommand) Validate() error {
	// The config file must be loaded before the other defaults are applied.
	e1 := dc.ConfigFileArgs.Validate()
	ApplyIntDefault(&dc.Port, DaemonPort)
	if dc.Port == 0 {
		dc.Port = defaultListenPort
	}
	ApplyDefault(&dc.PasswordFile, DaemonPasswordFile)
	ApplyIntDefault(&dc.CacheEntries, DaemonCacheEntries)
	if dc.CacheEntries == 0 {
		dc.CacheEntries = defaultCacheEntries
	}

	var e2, e3 error
	if dc.Port < 0 || dc.Port > 65535 {
		e2 = fmt.Errorf("Bad port %d", dc.Port)
	}
	if dc.CacheEntries < 0 {
		e2 = errors.Join(e2, fmt.Errorf("Bad cache size %d", dc.CacheEntries))
	}
	if dc.PasswordFile != "" {
		dc.PasswordFile = path.Clean(dc.PasswordFile)
		dc.authenticator, e3 = auth.ReadPasswords(dc.PasswordFile)
		if e3 != nil {
			e3 = fmt.Errorf("Failed to read password file: %w", e3)
		}
	}
	return errors.Join(
		e1,
		e2,
		e3,
		dc.DevArgs.Validate(),
		dc.VerboseArgs.Validate(),
		dc.SourceArgs.Validate(),
	)
}

func (dc *DaemonCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Load the dataset and serve dashboard queries over HTTP until SIGHUP or SIGTERM.

Endpoints are /pages, /pages/{page}/summary, /pages/{page}/charts/{chart},
/buckets, /buckets/{slots} and /metrics.  The query parameters have the names of the
query options of "qwt summary".  The API is described at /openapi.json.
`)
}
