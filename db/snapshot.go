package db

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// A snapshot is a CBOR-encoded, versioned copy of a record set.  It loads much faster than the
// CSV and is what `qwt split` writes for each job class.

const snapshotVersion = 1

type snapshot struct {
	Version int          `cbor:"version"`
	Records []*JobRecord `cbor:"records"`
}

func WriteSnapshot(output io.Writer, records []*JobRecord) error {
	w := bufio.NewWriter(output)
	if err := cbor.NewEncoder(w).Encode(&snapshot{Version: snapshotVersion, Records: records}); err != nil {
		return err
	}
	return w.Flush()
}

func ReadSnapshot(input io.Reader) ([]*JobRecord, error) {
	var s snapshot
	if err := cbor.NewDecoder(bufio.NewReader(input)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("Unsupported snapshot version %d", s.Version)
	}
	// Snapshots are written by us but may be stale or hand-edited; apply the same rules as for CSV.
	records := s.Records[:0]
	for _, r := range s.Records {
		if r != nil && r.JobType != "" && r.Month.Valid() && r.Slots >= 1 {
			records = append(records, r)
		}
	}
	return records, nil
}

func ReadSnapshotFile(fn string) ([]*JobRecord, error) {
	input, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer input.Close()
	records, err := ReadSnapshot(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return records, nil
}

func WriteSnapshotFile(fn string, records []*JobRecord) error {
	output, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(output, records); err != nil {
		output.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return output.Close()
}
