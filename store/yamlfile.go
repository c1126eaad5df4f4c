package store

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// yamlDoc is the on-disk shape of a FileBackend: both namespaces in one
// file, since a single RSN only ever needs one status and one config.
type yamlDoc struct {
	Status Status    `yaml:"rsn_status"`
	Config RSNConfig `yaml:"rsn_config"`
}

// FileBackend persists status and config to a single YAML file, matching
// the RSN's two Preferences namespaces (rsn_status, rsn_config) folded
// into one document. A missing file loads as zero-valued status and a
// sanitized default config, mirroring the firmware's cold-boot behavior.
type FileBackend struct {
	mu   sync.Mutex
	path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (f *FileBackend) read() (yamlDoc, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return yamlDoc{Config: Sanitize(RSNConfig{})}, nil
		}
		return yamlDoc{}, err
	}
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return yamlDoc{}, err
	}
	return doc, nil
}

func (f *FileBackend) write(doc yamlDoc) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileBackend) LoadStatus() (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		// Storage read miss: the backend keeps no in-memory copy of the
		// status, so a read or parse failure yields the zero-value status.
		return Status{}, nil
	}
	return doc.Status, nil
}

func (f *FileBackend) SaveStatus(s Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		doc = yamlDoc{Config: Sanitize(RSNConfig{})}
	}
	doc.Status = s
	return f.write(doc)
}

func (f *FileBackend) LoadConfig() (RSNConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		return Sanitize(RSNConfig{}), nil
	}
	return Sanitize(doc.Config), nil
}

func (f *FileBackend) SaveConfig(c RSNConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.read()
	if err != nil {
		doc = yamlDoc{}
	}
	doc.Config = c
	return f.write(doc)
}
