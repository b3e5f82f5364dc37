package db

import (
	"slices"

	. "github.com/Nathan-JzSu/qwt/common"
)

// MT: Immutable after NewStore; safe for concurrent readers.  The slices handed out are shared and
// must not be modified.

type Store struct {
	records     []*JobRecord
	byClass     [numClasses][]*JobRecord
	years       []int
	slots       []int
	latestYear  int
	latestMonth Month
}

func NewStore(records []*JobRecord) *Store {
	s := &Store{records: records}
	years := make(map[int]bool)
	slots := make(map[int]bool)
	for _, r := range records {
		if c, ok := ClassOf(r.JobType); ok {
			s.byClass[c] = append(s.byClass[c], r)
		}
		years[r.Year] = true
		slots[r.Slots] = true
		if r.Year > s.latestYear || (r.Year == s.latestYear && r.Month > s.latestMonth) {
			s.latestYear, s.latestMonth = r.Year, r.Month
		}
	}
	s.years = sortedKeys(years)
	s.slots = sortedKeys(slots)
	return s
}

func sortedKeys[K int](m map[K]bool) []K {
	ks := make([]K, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) Records() []*JobRecord {
	return s.records
}

func (s *Store) Class(c JobClass) []*JobRecord {
	return s.byClass[c]
}

func (s *Store) Years() []int {
	return s.years
}

// Distinct slot values, ascending.
func (s *Store) ObservedSlots() []int {
	return s.slots
}

// The most recent (year, month) present in the data, or (0, 0) for an empty store.
func (s *Store) Latest() (int, Month) {
	return s.latestYear, s.latestMonth
}
