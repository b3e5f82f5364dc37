// Leveled logging shared by the command line tool and the daemon.

package status

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"sync"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelCritical
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarning:
		return "warning"
	case LogLevelError:
		return "error"
	case LogLevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Implementations of this must be thread-safe.  None of the printing functions exit or panic, the
// name indicates the log level only.
type Logger interface {
	// Print only messages at level l or above
	SetLevel(l LogLevel)

	// Lower log level at least to l
	LowerLevelTo(l LogLevel)

	// Print on this stream, if installed
	SetStderr(w io.Writer)

	// Print on this underlying (simpler) logger, if installed - often syslog.
	SetUnderlying(w UnderlyingLogger)

	Debug(xs ...any)
	Debugf(format string, args ...any)
	Info(xs ...any)
	Infof(format string, args ...any)
	Warning(xs ...any)
	Warningf(format string, args ...any)
	Error(xs ...any)
	Errorf(format string, args ...any)
	Critical(xs ...any)
	Criticalf(format string, args ...any)
}

// log/syslog implements UnderlyingLogger.  An underlying logger must be thread-safe.
type UnderlyingLogger interface {
	Debug(m string) error
	Info(m string) error
	Warning(m string) error
	Err(m string) error
	Crit(m string) error
}

type StandardLogger struct {
	sync.Mutex
	level      LogLevel
	stderr     io.Writer
	underlying UnderlyingLogger
}

func NewStandardLogger(level LogLevel, stderr io.Writer) *StandardLogger {
	return &StandardLogger{level: level, stderr: stderr}
}

// MT: Constant after initialization, thread-safe.
var defaultLogger Logger = NewStandardLogger(LogLevelWarning, os.Stderr)

func Default() Logger {
	return defaultLogger
}

func (sl *StandardLogger) SetLevel(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()
	sl.level = l
}

func (sl *StandardLogger) LowerLevelTo(l LogLevel) {
	sl.Lock()
	defer sl.Unlock()
	if sl.level > l {
		sl.level = l
	}
}

func (sl *StandardLogger) SetStderr(stderr io.Writer) {
	sl.Lock()
	defer sl.Unlock()
	sl.stderr = stderr
}

func (sl *StandardLogger) SetUnderlying(underlying UnderlyingLogger) {
	sl.Lock()
	defer sl.Unlock()
	sl.underlying = underlying
}

func (sl *StandardLogger) emit(l LogLevel, s string) {
	sl.Lock()
	defer sl.Unlock()

	if l < sl.level {
		return
	}
	if sl.stderr != nil {
		fmt.Fprintln(sl.stderr, s)
	}
	if sl.underlying != nil {
		switch l {
		case LogLevelDebug:
			sl.underlying.Debug(s)
		case LogLevelInfo:
			sl.underlying.Info(s)
		case LogLevelWarning:
			sl.underlying.Warning(s)
		case LogLevelError:
			sl.underlying.Err(s)
		default:
			sl.underlying.Crit(s)
		}
	}
}

func (sl *StandardLogger) Debug(xs ...any) { sl.emit(LogLevelDebug, fmt.Sprint(xs...)) }

func (sl *StandardLogger) Debugf(format string, args ...any) {
	sl.emit(LogLevelDebug, fmt.Sprintf(format, args...))
}

func (sl *StandardLogger) Info(xs ...any) { sl.emit(LogLevelInfo, fmt.Sprint(xs...)) }

func (sl *StandardLogger) Infof(format string, args ...any) {
	sl.emit(LogLevelInfo, fmt.Sprintf(format, args...))
}

func (sl *StandardLogger) Warning(xs ...any) { sl.emit(LogLevelWarning, fmt.Sprint(xs...)) }

func (sl *StandardLogger) Warningf(format string, args ...any) {
	sl.emit(LogLevelWarning, fmt.Sprintf(format, args...))
}

func (sl *StandardLogger) Error(xs ...any) { sl.emit(LogLevelError, fmt.Sprint(xs...)) }

func (sl *StandardLogger) Errorf(format string, args ...any) {
	sl.emit(LogLevelError, fmt.Sprintf(format, args...))
}

func (sl *StandardLogger) Critical(xs ...any) { sl.emit(LogLevelCritical, fmt.Sprint(xs...)) }

func (sl *StandardLogger) Criticalf(format string, args ...any) {
	sl.emit(LogLevelCritical, fmt.Sprintf(format, args...))
}

// Attach syslog to the default logger.  The "","" address connects us to the Unix syslog daemon.
// The priority (INFO) is a placeholder, it is overridden by the level of each message.

func Start(logTag string) error {
	logger, err := syslog.Dial("", "", syslog.LOG_INFO|syslog.LOG_USER, logTag)
	if err != nil {
		return err
	}
	defaultLogger.SetUnderlying(logger)
	return nil
}

func Fatalf(format string, args ...any) {
	defaultLogger.Criticalf(format, args...)
	os.Exit(1)
}
