package action

import "sync/atomic"

// Mapping resolves a gesture name to its configured Action. Reloads replace
// the whole table in one atomic swap so concurrent readers never observe a
// half-updated map.
type Mapping struct {
	table atomic.Pointer[map[string]*Action]
}

// NewMapping creates an empty mapping table.
func NewMapping() *Mapping {
	m := &Mapping{}
	empty := map[string]*Action{}
	m.table.Store(&empty)
	return m
}

// Load replaces the whole table from configuration records. Later records
// with a duplicate gesture key overwrite earlier ones.
func (m *Mapping) Load(records []Record) {
	table := make(map[string]*Action, len(records))
	for _, rec := range records {
		if rec.Gesture == "" {
			continue
		}
		a := rec.Action
		a.normalize()
		table[rec.Gesture] = &a
	}
	m.table.Store(&table)
}

// Register inserts or replaces a single gesture mapping.
func (m *Mapping) Register(gesture string, a *Action) {
	if gesture == "" || a == nil {
		return
	}
	copied := *a
	copied.normalize()

	old := *m.table.Load()
	table := make(map[string]*Action, len(old)+1)
	for k, v := range old {
		table[k] = v
	}
	table[gesture] = &copied
	m.table.Store(&table)
}

// Get returns the action mapped to a gesture name, or nil.
func (m *Mapping) Get(gesture string) *Action {
	return (*m.table.Load())[gesture]
}

// All returns a copy of the current table.
func (m *Mapping) All() map[string]*Action {
	old := *m.table.Load()
	table := make(map[string]*Action, len(old))
	for k, v := range old {
		table[k] = v
	}
	return table
}

// Len reports the number of configured mappings.
func (m *Mapping) Len() int {
	return len(*m.table.Load())
}
