package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or no schema files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{operations: make(map[string]Operation)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// LoadDefault parses the bundled loan form overlay.
func LoadDefault() (*Store, error) {
	return LoadFS(EmbeddedFS())
}

// Parse reads a single JSON or YAML document.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{operations: make(map[string]Operation)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Operation returns the configuration for the supplied operation id.
func (s *Store) Operation(id string) (Operation, bool) {
	if s == nil {
		return Operation{}, false
	}
	op, ok := s.operations[id]
	return op, ok
}

// Empty reports whether the store holds any operations.
func (s *Store) Empty() bool {
	return s == nil || len(s.operations) == 0
}

type documentFile struct {
	Operations map[string]operationFile `json:"operations" yaml:"operations"`
}

type operationFile struct {
	Form   FormConfig             `json:"form" yaml:"form"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for opID, raw := range doc.Operations {
		id := strings.TrimSpace(opID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty operation id", source)
		}
		if _, exists := s.operations[id]; exists {
			return fmt.Errorf("uischema: duplicate operation %q (file %s)", id, source)
		}

		op, err := normaliseOperation(raw, id, source)
		if err != nil {
			return err
		}
		s.operations[id] = op
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseOperation(raw operationFile, id, source string) (Operation, error) {
	op := Operation{
		ID:     id,
		Source: source,
		Form:   raw.Form,
		Fields: make(map[string]FieldConfig, len(raw.Fields)),
	}

	for key, cfg := range raw.Fields {
		name := NormalizeFieldKey(key)
		if name == "" {
			return Operation{}, fmt.Errorf("uischema: operation %q (file %s) field key %q normalises to empty name", id, source, key)
		}
		if _, exists := op.Fields[name]; exists {
			return Operation{}, fmt.Errorf("uischema: operation %q (file %s) defines duplicate field %q", id, source, name)
		}
		cloned := cfg
		cloned.Metadata = cloneStringMap(cfg.Metadata)
		cloned.OriginalKey = key
		op.Fields[name] = cloned
	}

	return op, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
