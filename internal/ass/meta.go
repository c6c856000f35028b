package ass

import (
	"slices"

	"subedit/internal/observable"
)

// Well-known [Script Info] keys.
const (
	MetaScriptType = "ScriptType"
	MetaPlayResX   = "PlayResX"
	MetaPlayResY   = "PlayResY"
	MetaLanguage   = "Language"
	MetaVideoFile  = "Video File"
	MetaAudioFile  = "Audio File"
)

// MetaEntry is one key/value pair of script metadata.
type MetaEntry struct {
	Key   string
	Value string
}

// Meta is the ordered [Script Info] mapping. Every mutation fires Changed once.
type Meta struct {
	keys   []string
	values map[string]string

	Changed observable.Signal[struct{}]
}

// NewMeta constructs empty metadata.
func NewMeta() *Meta {
	return &Meta{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Meta) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of keys.
func (m *Meta) Len() int { return len(m.keys) }

// Entries returns the pairs in insertion order.
func (m *Meta) Entries() []MetaEntry {
	out := make([]MetaEntry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, MetaEntry{Key: k, Value: m.values[k]})
	}
	return out
}

// Set stores value under key, keeping the key's original position.
func (m *Meta) Set(key, value string) {
	m.set(key, value)
	m.Changed.Emit(struct{}{})
}

// Update stores every entry, then fires Changed once.
func (m *Meta) Update(entries ...MetaEntry) {
	if len(entries) == 0 {
		return
	}
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	m.Changed.Emit(struct{}{})
}

// Remove deletes key. Removing a missing key does not fire Changed.
func (m *Meta) Remove(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	m.Changed.Emit(struct{}{})
}

// Clear removes every key.
func (m *Meta) Clear() {
	m.keys = nil
	m.values = make(map[string]string)
	m.Changed.Emit(struct{}{})
}

// Replace swaps the whole contents for entries in one change.
func (m *Meta) Replace(entries []MetaEntry) {
	m.keys = nil
	m.values = make(map[string]string, len(entries))
	for _, e := range entries {
		m.set(e.Key, e.Value)
	}
	m.Changed.Emit(struct{}{})
}

func (m *Meta) set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}
