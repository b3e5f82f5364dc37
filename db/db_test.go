package db

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/Nathan-JzSu/qwt/common"
)

func assertEq[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("Got %v, wanted %v", got, want)
	}
}

func assertNotErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

const testCSV = `slots,year,month,job_type,first_job_waiting_time,day,job_number,class_user,class_own
4,2024,Jan,omp mpi128,120,3,101,shared,shared
1,2024,Feb,1-p a,30.5,,102,buyin,buyin
8,2023,mar,GPU = 1 a100,7200,15,103,,buyin
2,2024,Jan,,100,1,104,shared,shared
0,2024,Jan,omp b,100,1,105,shared,shared
3,2024,Foo,omp b,100,1,106,shared,shared
3,2024.0,Dec,MPI job x,nan,1,107,shared,shared
16,2024.0,12,MPI job x,60,2,108,shared,shared
`

func TestReadCSV(t *testing.T) {
	records, soft, err := ReadCSV(strings.NewReader(testCSV), false)
	assertNotErr(t, err)
	// Missing job type, zero slots, bad month, missing wait
	assertEq(t, soft, 4)
	assertEq(t, len(records), 4)

	r := records[0]
	assertEq(t, r.JobType, "omp mpi128")
	assertEq(t, r.Slots, 4)
	assertEq(t, r.Month, Month(1))
	assertEq(t, r.Day, 3)
	assertEq(t, r.JobNumber, uint64(101))
	assertEq(t, r.WaitSec, 120.0)

	// Missing day is kept
	assertEq(t, records[1].HasDay(), false)
	assertEq(t, records[1].WaitSec, 30.5)
	// Lowercase month is accepted, empty class is empty
	assertEq(t, records[2].Month, Month(3))
	assertEq(t, records[2].ClassUser, "")
	// Float-formatted year, numeric month
	assertEq(t, records[3].Year, 2024)
	assertEq(t, records[3].Month, Month(12))
}

func TestReadCSVBadHeader(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("job_type,year\nx,2024\n"), false)
	if err == nil || !strings.Contains(err.Error(), "first_job_waiting_time") {
		t.Fatalf("Expected header error, got %v", err)
	}
	_, _, err = ReadCSV(strings.NewReader(""), false)
	if err == nil {
		t.Fatalf("Expected error on empty input")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	records, _, err := ReadCSV(strings.NewReader(testCSV), false)
	assertNotErr(t, err)
	var buf bytes.Buffer
	assertNotErr(t, WriteCSV(&buf, records))
	again, soft, err := ReadCSV(&buf, false)
	assertNotErr(t, err)
	assertEq(t, soft, 0)
	assertEq(t, len(again), len(records))
	for i := range records {
		assertEq(t, *again[i], *records[i])
	}
}

func TestSnapshot(t *testing.T) {
	records, _, err := ReadCSV(strings.NewReader(testCSV), false)
	assertNotErr(t, err)
	fn := filepath.Join(t.TempDir(), "omp.cbor")
	assertNotErr(t, WriteSnapshotFile(fn, records))
	again, err := ReadSnapshotFile(fn)
	assertNotErr(t, err)
	assertEq(t, len(again), len(records))
	for i := range records {
		assertEq(t, *again[i], *records[i])
	}

	_, err = ReadSnapshot(bytes.NewReader([]byte{0xff, 0x00}))
	if err == nil {
		t.Fatalf("Expected decoding error")
	}
}

func TestSqlite(t *testing.T) {
	records, _, err := ReadCSV(strings.NewReader(testCSV), false)
	assertNotErr(t, err)
	fn := filepath.Join(t.TempDir(), "jobs.db")
	ctx := context.Background()
	assertNotErr(t, WriteSqlite(ctx, fn, DefaultTable, records))

	again, soft, err := LoadSqlite(ctx, fn, DefaultTable, nil, false)
	assertNotErr(t, err)
	assertEq(t, soft, 0)
	assertEq(t, len(again), len(records))

	only2023, _, err := LoadSqlite(ctx, fn, DefaultTable, []int{2023}, false)
	assertNotErr(t, err)
	assertEq(t, len(only2023), 1)
	assertEq(t, only2023[0].JobType, "GPU = 1 a100")
	assertEq(t, only2023[0].Day, 15)

	for _, r := range again {
		if r.JobNumber == 102 {
			assertEq(t, r.HasDay(), false)
		}
	}
}

func TestSelectQuery(t *testing.T) {
	sql, args, err := selectQuery("postgres", DefaultTable, []int{2023, 2024})
	assertNotErr(t, err)
	if !strings.Contains(sql, `FROM "job_wait"`) || !strings.Contains(sql, `"year" IN ($1, $2)`) {
		t.Fatalf("Unexpected SQL %s", sql)
	}
	assertEq(t, len(args), 2)
}

func TestStore(t *testing.T) {
	records, _, err := ReadCSV(strings.NewReader(testCSV), false)
	assertNotErr(t, err)
	s := NewStore(records)
	assertEq(t, s.Len(), 4)
	assertEq(t, len(s.Class(ClassOMP)), 1)
	assertEq(t, len(s.Class(ClassOneP)), 1)
	assertEq(t, len(s.Class(ClassGPU)), 1)
	assertEq(t, len(s.Class(ClassMPI)), 1)
	assertEq(t, len(s.Years()), 2)
	y, m := s.Latest()
	assertEq(t, y, 2024)
	assertEq(t, m, Month(12))
	assertEq(t, len(s.ObservedSlots()), 4)
}

func TestClassOf(t *testing.T) {
	for jt, want := range map[string]JobClass{
		"GPU > 1 a100": ClassGPU,
		"MPI job x":    ClassMPI,
		"omp mpi128":   ClassOMP,
		"OMP b":        ClassOMP,
		"1-p a":        ClassOneP,
	} {
		c, ok := ClassOf(jt)
		assertEq(t, ok, true)
		assertEq(t, c, want)
	}
	_, ok := ClassOf("batch")
	assertEq(t, ok, false)
	c, err := ParseClass("onep")
	assertNotErr(t, err)
	assertEq(t, c, ClassOneP)
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), Source{})
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("Expected ErrNoSource, got %v", err)
	}
	dir := t.TempDir()
	assertNotErr(t, os.WriteFile(filepath.Join(dir, "waiting_times_2024.csv"), []byte(testCSV), 0o600))
	assertNotErr(t, os.WriteFile(filepath.Join(dir, "waiting_times_2025.csv"), []byte(testCSV), 0o600))
	s, err := Open(context.Background(), Source{DataDir: dir})
	assertNotErr(t, err)
	assertEq(t, s.Len(), 8)
}
