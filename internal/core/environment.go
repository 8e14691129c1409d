package core

import (
	"fmt"
	"time"
)

// Environment is a named, ordered set of host entries (e.g., dev, staging).
type Environment struct {
	name        string
	description string
	entries     []HostEntry
	createdAt   time.Time
	updatedAt   time.Time
}

// NewEnvironment creates an empty environment with the given name.
func NewEnvironment(name string) *Environment {
	now := time.Now().UTC()
	return &Environment{
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

// NewEnvironmentWithTimestamps creates an environment with explicit timestamps (for loading from storage).
func NewEnvironmentWithTimestamps(name string, created, updated time.Time) *Environment {
	return &Environment{
		name:      name,
		createdAt: created,
		updatedAt: updated,
	}
}

func (e *Environment) Name() string         { return e.name }
func (e *Environment) Description() string  { return e.description }
func (e *Environment) CreatedAt() time.Time { return e.createdAt }
func (e *Environment) UpdatedAt() time.Time { return e.updatedAt }
func (e *Environment) EntryCount() int      { return len(e.entries) }

func (e *Environment) SetDescription(desc string) {
	e.description = desc
	e.touch()
}

func (e *Environment) touch() {
	e.updatedAt = time.Now().UTC()
}

// Entries returns a copy of the entries in insertion order.
func (e *Environment) Entries() []HostEntry {
	result := make([]HostEntry, len(e.entries))
	for i, entry := range e.entries {
		result[i] = entry.clone()
	}
	return result
}

// AddEntry validates and appends an entry. Duplicates are allowed.
func (e *Environment) AddEntry(entry HostEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	e.entries = append(e.entries, entry.clone())
	e.touch()
	return nil
}

// FindEntry returns the first entry listing hostname.
func (e *Environment) FindEntry(hostname string) (HostEntry, bool) {
	if i := e.indexOf(hostname); i >= 0 {
		return e.entries[i].clone(), true
	}
	return HostEntry{}, false
}

// RemoveEntry removes the first entry listing hostname and reports whether one was found.
func (e *Environment) RemoveEntry(hostname string) bool {
	i := e.indexOf(hostname)
	if i < 0 {
		return false
	}
	e.entries = append(e.entries[:i], e.entries[i+1:]...)
	e.touch()
	return true
}

// SetEntryEnabled toggles the first entry listing hostname.
func (e *Environment) SetEntryEnabled(hostname string, enabled bool) bool {
	i := e.indexOf(hostname)
	if i < 0 {
		return false
	}
	if e.entries[i].Enabled != enabled {
		e.entries[i].Enabled = enabled
		e.touch()
	}
	return true
}

func (e *Environment) indexOf(hostname string) int {
	for i, entry := range e.entries {
		if entry.HasHostname(hostname) {
			return i
		}
	}
	return -1
}

// Clone creates a deep copy of the environment.
func (e *Environment) Clone() *Environment {
	clone := NewEnvironmentWithTimestamps(e.name, e.createdAt, e.updatedAt)
	clone.description = e.description
	clone.entries = e.Entries()
	return clone
}

// Restore sets the description and entries without touching timestamps
// (for loading from storage).
func (e *Environment) Restore(desc string, entries []HostEntry) error {
	restored := make([]HostEntry, 0, len(entries))
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("entry %d: %w", i+1, err)
		}
		restored = append(restored, entry.clone())
	}
	e.description = desc
	e.entries = restored
	return nil
}
