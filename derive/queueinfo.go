package derive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type QueueClass struct {
	User string // "shared" or "buyin"
	Own  string
}

// Queue name -> classes.  The zero value knows no queues.

type QueueInfo map[string]QueueClass

// The classes of a queue, "" for unknown queues.

func (qi QueueInfo) Classes(queue string) (string, string) {
	c := qi[queue]
	return c.User, c.Own
}

// The queue-info CSV has the columns queuename, class_user and class_own in any order; other
// columns are ignored.

func ReadQueueInfo(input io.Reader) (QueueInfo, error) {
	rdr := csv.NewReader(input)
	rdr.FieldsPerRecord = -1
	header, err := rdr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("Empty queue info, no header")
		}
		return nil, err
	}
	index := map[string]int{"queuename": -1, "class_user": -1, "class_own": -1}
	for i, h := range header {
		if _, found := index[strings.TrimSpace(h)]; found {
			index[strings.TrimSpace(h)] = i
		}
	}
	for name, ix := range index {
		if ix < 0 {
			return nil, fmt.Errorf("Queue info: missing column %s", name)
		}
	}
	qi := make(QueueInfo)
	for {
		fields, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		field := func(name string) string {
			if ix := index[name]; ix < len(fields) {
				return strings.TrimSpace(fields[ix])
			}
			return ""
		}
		if q := field("queuename"); q != "" {
			qi[q] = QueueClass{User: field("class_user"), Own: field("class_own")}
		}
	}
	return qi, nil
}

func ReadQueueInfoFile(fn string) (QueueInfo, error) {
	input, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer input.Close()
	qi, err := ReadQueueInfo(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return qi, nil
}
