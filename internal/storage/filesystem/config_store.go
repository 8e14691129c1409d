package filesystem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/hostctl/internal/atomicfile"
	"github.com/artpar/hostctl/internal/core"
	"gopkg.in/yaml.v3"
)

// ConfigStore persists the environment registry as a single YAML file.
type ConfigStore struct {
	path string
}

// NewConfigStore creates a store backed by the file at path.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string { return s.path }

// Load reads the registry. A missing or empty file yields an empty store;
// a file that cannot be trusted yields a *core.CorruptConfigError and is
// left untouched.
func (s *ConfigStore) Load(ctx context.Context) (*core.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.NewStore(), nil
		}
		return nil, core.NewIOError("read configuration file", s.path, err)
	}

	var data configData
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		if errors.Is(err, io.EOF) {
			return core.NewStore(), nil
		}
		return nil, &core.CorruptConfigError{Path: s.path, Err: err}
	}

	store, err := s.fromStorageFormat(&data)
	if err != nil {
		return nil, &core.CorruptConfigError{Path: s.path, Err: err}
	}
	return store, nil
}

// Save atomically replaces the configuration file with the store's contents.
func (s *ConfigStore) Save(ctx context.Context, store *core.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.toStorageFormat(store)); err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := atomicfile.EnsureDir(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	mode, err := atomicfile.Mode(s.path, 0644)
	if err != nil {
		return err
	}
	return atomicfile.WriteFile(s.path, buf.Bytes(), mode)
}

// Storage format types

type configData struct {
	Active       *string          `yaml:"active"`
	Environments environmentsData `yaml:"environments"`
}

// environmentsData is a YAML mapping from name to environment that keeps
// the order of its keys.
type environmentsData []namedEnvironment

type namedEnvironment struct {
	Name string
	Data environmentData
}

type environmentData struct {
	Description string      `yaml:"description,omitempty"`
	CreatedAt   time.Time   `yaml:"created_at"`
	UpdatedAt   time.Time   `yaml:"updated_at"`
	Entries     []entryData `yaml:"entries"`
}

type entryData struct {
	Address   string   `yaml:"address"`
	Hostnames []string `yaml:"hostnames,omitempty,flow"`
	Hostname  string   `yaml:"hostname,omitempty"`
	Comment   string   `yaml:"comment,omitempty"`
	Enabled   *bool    `yaml:"enabled,omitempty"`
}

func (m environmentsData) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, env := range m {
		var value yaml.Node
		if err := value.Encode(env.Data); err != nil {
			return nil, fmt.Errorf("environment %s: %w", env.Name, err)
		}
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: env.Name}
		node.Content = append(node.Content, key, &value)
	}
	return node, nil
}

func (m *environmentsData) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null" {
		*m = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: environments must be a mapping of name to environment", value.Line)
	}

	seen := make(map[string]bool, len(value.Content)/2)
	result := make(environmentsData, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: environment name must be a string", key.Line)
		}
		if seen[key.Value] {
			return fmt.Errorf("line %d: environment %q defined more than once", key.Line, key.Value)
		}
		seen[key.Value] = true

		var data environmentData
		if err := decodeStrict(val, &data); err != nil {
			return fmt.Errorf("environment %q (line %d): %w", key.Value, key.Line, err)
		}
		result = append(result, namedEnvironment{Name: key.Value, Data: data})
	}
	*m = result
	return nil
}

// decodeStrict decodes node into out, rejecting keys that out does not
// declare. Node.Decode does not inherit KnownFields from the outer decoder.
func decodeStrict(node *yaml.Node, out interface{}) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Conversion functions

func (s *ConfigStore) toStorageFormat(store *core.Store) *configData {
	data := &configData{}
	if active, ok := store.Active(); ok {
		data.Active = &active
	}

	for _, env := range store.List() {
		entries := make([]entryData, 0, env.EntryCount())
		for _, e := range env.Entries() {
			enabled := e.Enabled
			entries = append(entries, entryData{
				Address:   e.Address,
				Hostnames: e.Hostnames,
				Comment:   e.Comment,
				Enabled:   &enabled,
			})
		}
		data.Environments = append(data.Environments, namedEnvironment{
			Name: env.Name(),
			Data: environmentData{
				Description: env.Description(),
				CreatedAt:   env.CreatedAt(),
				UpdatedAt:   env.UpdatedAt(),
				Entries:     entries,
			},
		})
	}
	return data
}

func (s *ConfigStore) fromStorageFormat(data *configData) (*core.Store, error) {
	store := core.NewStore()
	now := time.Now()

	for _, named := range data.Environments {
		entries := make([]core.HostEntry, 0, len(named.Data.Entries))
		for _, e := range named.Data.Entries {
			entries = append(entries, e.toEntry())
		}

		created, updated := named.Data.CreatedAt, named.Data.UpdatedAt
		if created.IsZero() {
			created = now
		}
		if updated.IsZero() {
			updated = created
		}

		env := core.NewEnvironmentWithTimestamps(named.Name, created, updated)
		if err := env.Restore(named.Data.Description, entries); err != nil {
			return nil, fmt.Errorf("environment %q: %w", named.Name, err)
		}
		if err := store.Add(env); err != nil {
			return nil, err
		}
	}

	if data.Active != nil && *data.Active != "" {
		if err := store.SetActive(*data.Active); err != nil {
			return nil, fmt.Errorf("active environment %q is not defined: %w", *data.Active, err)
		}
	}
	return store, nil
}

func (e entryData) toEntry() core.HostEntry {
	hostnames := append([]string(nil), e.Hostnames...)
	if e.Hostname != "" {
		hostnames = append(hostnames, strings.Fields(e.Hostname)...)
	}

	address := strings.TrimSpace(e.Address)
	if canonical, err := core.ParseAddress(address); err == nil {
		address = canonical
	}

	return core.HostEntry{
		Address:   address,
		Hostnames: hostnames,
		Comment:   e.Comment,
		Enabled:   e.Enabled == nil || *e.Enabled,
	}
}
