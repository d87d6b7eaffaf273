package ir

// Manifest is the ordered collection of entries for one export run,
// keyed by short name.
type Manifest struct {
	entries []*Entry
	index   map[string]int
}

// NewManifest returns an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{index: make(map[string]int)}
}

// Set stores entry under its short name. When the name is already
// present the previous entry is replaced in place and returned.
func (m *Manifest) Set(entry *Entry) (replaced *Entry) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[entry.Name]; ok {
		replaced = m.entries[i]
		m.entries[i] = entry
		return replaced
	}
	m.index[entry.Name] = len(m.entries)
	m.entries = append(m.entries, entry)
	return nil
}

// Get looks up an entry by short name. Returns nil if not found.
func (m *Manifest) Get(name string) *Entry {
	if m == nil {
		return nil
	}
	if i, ok := m.index[name]; ok {
		return m.entries[i]
	}
	return nil
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Names returns the short names in insertion order.
func (m *Manifest) Names() []string {
	if m == nil {
		return nil
	}
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (m *Manifest) Entries() []*Entry {
	if m == nil {
		return nil
	}
	return m.entries
}
