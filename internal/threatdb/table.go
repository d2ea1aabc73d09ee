package threatdb

import "mailsift/internal/domain"

// Entry is the value stored for one address.
type Entry struct {
	Country string
	Tag     string
	Source  string
}

// Table maps addresses to entries and remembers first-seen key order.
type Table struct {
	order   []string
	entries map[string]Entry
}

func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Upsert stores e under address. An existing address keeps its position and
// has its value replaced; replaced reports whether that happened.
func (t *Table) Upsert(address string, e Entry) (replaced bool) {
	if _, ok := t.entries[address]; ok {
		replaced = true
	} else {
		t.order = append(t.order, address)
	}
	t.entries[address] = e
	return replaced
}

func (t *Table) Get(address string) (Entry, bool) {
	e, ok := t.entries[address]
	return e, ok
}

func (t *Table) Len() int {
	return len(t.order)
}

// Addresses returns the keys in first-seen order.
func (t *Table) Addresses() []string {
	return append([]string(nil), t.order...)
}

// Each visits entries in first-seen order.
func (t *Table) Each(fn func(address string, e Entry)) {
	for _, address := range t.order {
		fn(address, t.entries[address])
	}
}

// ThreatEntries converts the table into persistence models, preserving order.
func (t *Table) ThreatEntries() []domain.ThreatEntry {
	out := make([]domain.ThreatEntry, 0, len(t.order))
	t.Each(func(address string, e Entry) {
		out = append(out, domain.ThreatEntry{
			Address: address,
			Country: e.Country,
			Tag:     e.Tag,
			Source:  e.Source,
		})
	})
	return out
}
