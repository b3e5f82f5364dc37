package common

import (
	"os"
	"path/filepath"
	"testing"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func ptr(f float64) *float64 { return &f }

func TestFormatWait(t *testing.T) {
	assertEq(t, FormatWait(nil), "No data available")
	assertEq(t, FormatWait(ptr(0)), "0.0 min")
	assertEq(t, FormatWait(ptr(60.0)), "60.0 min")
	assertEq(t, FormatWait(ptr(60.1)), "1.0 hours")
	assertEq(t, FormatWait(ptr(150)), "2.5 hours")
}

func TestFormatSeconds(t *testing.T) {
	assertEq(t, FormatSeconds(59), "59.00 sec")
	assertEq(t, FormatSeconds(90), "1.50 min")
	assertEq(t, FormatSeconds(5400), "1.50 hour")
}

func TestMonths(t *testing.T) {
	m, err := ParseMonth("jan")
	if err != nil {
		t.Fatal(err)
	}
	assertEq(t, m, Month(1))
	m, err = ParseMonth(" DEC ")
	if err != nil {
		t.Fatal(err)
	}
	assertEq(t, m.String(), "Dec")
	for _, bad := range []string{"", "January", "13", "Jnu"} {
		if _, err := ParseMonth(bad); err == nil {
			t.Fatalf("Expected error for %q", bad)
		}
	}
	var x Month
	if err := x.UnmarshalText([]byte("mar")); err != nil {
		t.Fatal(err)
	}
	bs, _ := x.MarshalText()
	assertEq(t, string(bs), "Mar")
	assertEq(t, len(AllMonths()), 12)
}

func TestWaitUnit(t *testing.T) {
	u, err := ParseWaitUnit("Hours")
	if err != nil {
		t.Fatal(err)
	}
	assertEq(t, u.ToSeconds(1.5), 5400.0)
	u, _ = ParseWaitUnit("min")
	assertEq(t, u, UnitMinutes)
	u, _ = ParseWaitUnit("")
	assertEq(t, u, UnitMinutes)
	if _, err := ParseWaitUnit("days"); err == nil {
		t.Fatalf("Expected error")
	}
}

func TestConfigFile(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "qwt.ini")
	err := os.WriteFile(fn, []byte("[data-source]\ndata-file=/tmp/x.csv\n[daemon]\nport=8090\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	if err := LoadConfigFile(fn); err != nil {
		t.Fatal(err)
	}
	var s string
	assertEq(t, ApplyDefault(&s, DataSourceDataFile), true)
	assertEq(t, s, "/tmp/x.csv")
	s = "given"
	assertEq(t, ApplyDefault(&s, DataSourceDataFile), false)
	assertEq(t, s, "given")
	var port int
	assertEq(t, ApplyIntDefault(&port, DaemonPort), true)
	assertEq(t, port, 8090)
	assertEq(t, HasDefault(DataSourceSqlite), false)
}
