package core

import "fmt"

// Store is the registry of environments and the pointer to the active one.
// Environments are kept in insertion order.
type Store struct {
	order        []string
	environments map[string]*Environment
	active       string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{environments: make(map[string]*Environment)}
}

// ValidateEnvironmentName accepts non-empty names made of ASCII letters,
// digits, '-' and '_'.
func ValidateEnvironmentName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isAlnum(c) && c != '-' && c != '_' {
			return fmt.Errorf("%w: %q (use letters, digits, '-' and '_')", ErrInvalidName, name)
		}
	}
	return nil
}

// Create adds a new empty environment.
func (s *Store) Create(name, description string) (*Environment, error) {
	if err := ValidateEnvironmentName(name); err != nil {
		return nil, err
	}
	if _, exists := s.environments[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	env := NewEnvironment(name)
	env.description = description
	s.insert(env)
	return env.Clone(), nil
}

// Add inserts a fully built environment (for loading from storage).
func (s *Store) Add(env *Environment) error {
	if err := ValidateEnvironmentName(env.Name()); err != nil {
		return err
	}
	if _, exists := s.environments[env.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateName, env.Name())
	}
	s.insert(env.Clone())
	return nil
}

func (s *Store) insert(env *Environment) {
	s.order = append(s.order, env.Name())
	s.environments[env.Name()] = env
}

// Remove deletes an environment, clearing the active pointer if it named it.
func (s *Store) Remove(name string) error {
	if _, ok := s.environments[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(s.environments, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == name {
		s.active = ""
	}
	return nil
}

// Get returns a copy of the named environment.
func (s *Store) Get(name string) (*Environment, error) {
	env, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return env.Clone(), nil
}

func (s *Store) lookup(name string) (*Environment, error) {
	env, ok := s.environments[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return env, nil
}

// List returns copies of all environments in insertion order.
func (s *Store) List() []*Environment {
	result := make([]*Environment, 0, len(s.order))
	for _, name := range s.order {
		result = append(result, s.environments[name].Clone())
	}
	return result
}

// Names returns environment names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of environments.
func (s *Store) Len() int { return len(s.order) }

// AddEntry appends an entry to the named environment.
func (s *Store) AddEntry(envName string, entry HostEntry) error {
	env, err := s.lookup(envName)
	if err != nil {
		return err
	}
	return env.AddEntry(entry)
}

// RemoveEntry removes the first entry of the environment listing hostname.
func (s *Store) RemoveEntry(envName, hostname string) error {
	env, err := s.lookup(envName)
	if err != nil {
		return err
	}
	if !env.RemoveEntry(hostname) {
		return fmt.Errorf("%w: %s in environment %s", ErrEntryNotFound, hostname, envName)
	}
	return nil
}

// SetEntryEnabled enables or disables the first entry listing hostname.
func (s *Store) SetEntryEnabled(envName, hostname string, enabled bool) error {
	env, err := s.lookup(envName)
	if err != nil {
		return err
	}
	if !env.SetEntryEnabled(hostname, enabled) {
		return fmt.Errorf("%w: %s in environment %s", ErrEntryNotFound, hostname, envName)
	}
	return nil
}

// SetActive records the active environment. It does not touch the hosts
// file; callers invoke it only after the hosts file was written.
func (s *Store) SetActive(name string) error {
	if _, err := s.lookup(name); err != nil {
		return err
	}
	s.active = name
	return nil
}

// ClearActive unsets the active environment.
func (s *Store) ClearActive() {
	s.active = ""
}

// Active returns the active environment name, if any.
func (s *Store) Active() (string, bool) {
	return s.active, s.active != ""
}

// ActiveEnvironment returns a copy of the active environment, or nil.
func (s *Store) ActiveEnvironment() *Environment {
	if s.active == "" {
		return nil
	}
	return s.environments[s.active].Clone()
}
