// Package formats holds the registry of format descriptors: the built-in set embedded
// in the binary plus any descriptors loaded from user YAML files.
package formats

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"fjacquet/statement-import/internal/logging"
	"fjacquet/statement-import/internal/models"
	"fjacquet/statement-import/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// DefaultFileName is the user descriptor file searched for when none is configured.
const DefaultFileName = "formats.yaml"

// File is the on-disk layout of a descriptor file.
type File struct {
	Formats []*models.FormatDescriptor `yaml:"formats"`
}

// Registry maps format names to descriptors. Names are matched case-insensitively.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]*models.FormatDescriptor
	origin  map[string]string
	logger  logging.Logger
}

// NewRegistry returns a registry holding the built-in descriptors, with userFile
// merged over them when it is not empty.
func NewRegistry(userFile string, logger logging.Logger) (*Registry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	r := &Registry{
		formats: make(map[string]*models.FormatDescriptor),
		origin:  make(map[string]string),
		logger:  logger,
	}

	builtins, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("built-in formats: %w", err)
	}
	r.register(builtins, "builtin")

	if userFile != "" {
		if err := r.LoadFile(userFile); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *Registry) register(descs []*models.FormatDescriptor, origin string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descs {
		k := key(d.Name)
		if prev, ok := r.origin[k]; ok && prev != origin {
			r.logger.Debug("Format overridden",
				logging.F(logging.FieldFormat, d.Name),
				logging.F("previous", prev),
				logging.F("source", origin))
		}
		r.formats[k] = d
		r.origin[k] = origin
	}
}

// LoadFile reads descriptors from path and merges them by name over the registered ones.
// Relative paths are looked up with FindConfigFile.
func (r *Registry) LoadFile(path string) error {
	resolved, err := FindConfigFile(path)
	if err != nil {
		return fmt.Errorf("format file '%s' not found: %w", path, err)
	}
	descs, err := ParseFile(resolved)
	if err != nil {
		return err
	}
	r.register(descs, resolved)
	r.logger.Info("Loaded format descriptors",
		logging.F(logging.FieldFile, resolved),
		logging.F(logging.FieldCount, len(descs)))
	return nil
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*models.FormatDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.formats[key(name)]
	if !ok {
		return nil, fmt.Errorf("unknown format '%s' (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return d, nil
}

// Source reports where the descriptor registered under name came from: "builtin" or a file path.
func (r *Registry) Source(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.origin[key(name)]
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.formats))
	for _, d := range r.formats {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

// ParseFile reads and validates a descriptor file.
func ParseFile(path string) ([]*models.FormatDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading format file: %w", err)
	}
	descs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("format file '%s': %w", path, err)
	}
	return descs, nil
}

// Parse decodes descriptors from YAML. The document is either a "formats:" list or a
// single descriptor. Every descriptor is validated and names must be unique.
func Parse(data []byte) ([]*models.FormatDescriptor, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing formats: %w", err)
	}
	descs := file.Formats
	if len(descs) == 0 {
		var single models.FormatDescriptor
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("error parsing format: %w", err)
		}
		if single.Name == "" && len(single.Mapping) == 0 {
			return nil, fmt.Errorf("no format descriptors found")
		}
		descs = []*models.FormatDescriptor{&single}
	}

	seen := make(map[string]bool, len(descs))
	for i, d := range descs {
		if d == nil {
			return nil, fmt.Errorf("format #%d is empty", i+1)
		}
		if err := validation.ValidateDescriptor(d); err != nil {
			return nil, err
		}
		k := key(d.Name)
		if seen[k] {
			return nil, fmt.Errorf("format '%s' is defined more than once", d.Name)
		}
		seen[k] = true
	}
	return descs, nil
}

// Marshal renders a descriptor as YAML.
func Marshal(d *models.FormatDescriptor) ([]byte, error) {
	return yaml.Marshal(d)
}

// FindConfigFile looks for filename in the current directory, ./config and
// ~/.config/stmt-import, returning the first existing path.
func FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err != nil {
			return "", err
		}
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "stmt-import", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}
