package common

import (
	"errors"
	"os"
	"path"
	"strconv"

	ini "github.com/lars-t-hansen/ini"
)

// Defaults for command line options come from $HOME/.qwt, or from the file named by -config-file.
// A value on the command line always wins.

// MT: Constant after initialization
var (
	p     = ini.NewParser()
	store *ini.Store

	dataSource            = p.AddSection("data-source")
	DataSourceDataFile    = dataSource.AddString("data-file")
	DataSourceDataDir     = dataSource.AddString("data-dir")
	DataSourceSnapshot    = dataSource.AddString("snapshot")
	DataSourceDatabaseURI = dataSource.AddString("database-uri")
	DataSourceSqlite      = dataSource.AddString("sqlite")
	DataSourceKafkaBroker = dataSource.AddString("kafka-broker")
	DataSourceCluster     = dataSource.AddString("cluster")
	DataSourceQueueInfo   = dataSource.AddString("queue-info")
	daemon                = p.AddSection("daemon")
	DaemonPort            = daemon.AddString("port")
	DaemonPasswordFile    = daemon.AddString("password-file")
	DaemonCacheEntries    = daemon.AddString("cache-entries")
)

func init() {
	home := os.Getenv("HOME")
	if home == "" {
		return
	}
	fn := path.Join(path.Clean(home), ".qwt")
	if err := LoadConfigFile(fn); err != nil && !errors.Is(err, os.ErrNotExist) {
		Log.Errorf("Error in trying to read %s: %s", fn, err.Error())
	}
}

// Replace the current defaults with the contents of fn.  On error the old defaults are kept.

func LoadConfigFile(fn string) error {
	input, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer input.Close()
	s, err := p.Parse(input)
	if err != nil {
		return err
	}
	store = s
	return nil
}

func HasDefault(f *ini.Field) bool {
	return store != nil && f.Present(store)
}

func ApplyDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || store == nil || !f.Present(store) {
		return false
	}
	*sp = os.ExpandEnv(f.StringVal(store))
	return true
}

// Integer-valued defaults are stored as strings; a malformed value is reported and ignored.

func ApplyIntDefault(ip *int, f *ini.Field) bool {
	if *ip != 0 || store == nil || !f.Present(store) {
		return false
	}
	n, err := strconv.Atoi(f.StringVal(store))
	if err != nil {
		Log.Warningf("Ignoring bad integer %q in config file", f.StringVal(store))
		return false
	}
	*ip = n
	return true
}
