// Package descriptor persists the identity of a deployed H2O cluster so it
// can be torn down later without repeating the deployment flags.
package descriptor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"gopkg.in/yaml.v3"

	"github.com/h2oai/h2o-kubernetes/internal/cluster"
)

// Descriptor is the on-disk record of one deployment.
type Descriptor struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
}

// FromIdentity returns the descriptor of id.
func FromIdentity(id cluster.Identity) Descriptor {
	return Descriptor{Name: id.Name, Namespace: id.Namespace}
}

// Identity validates d and returns the identity it names.
func (d Descriptor) Identity() (cluster.Identity, error) {
	if d.Namespace == "" {
		return cluster.Identity{}, errors.New("descriptor has no namespace")
	}
	return cluster.NewIdentity(d.Name, d.Namespace, "")
}

// Write stores d at path. The file is replaced atomically.
func Write(path string, d Descriptor) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write descriptor %s: %w", path, err)
	}
	return nil
}

// Read loads the descriptor stored at path.
func Read(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}
	var d Descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Descriptor{}, fmt.Errorf("failed to parse descriptor %s: %w", path, err)
	}
	if d.Name == "" || d.Namespace == "" {
		return Descriptor{}, fmt.Errorf("descriptor %s must set both name and namespace", path)
	}
	return d, nil
}

// Resolve returns path when it exists, or path relative to dir otherwise.
func Resolve(path, dir string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("descriptor %s does not exist", path)
	}
	candidate := filepath.Join(dir, path)
	if _, err := os.Stat(candidate); err != nil {
		return "", fmt.Errorf("descriptor %s does not exist", path)
	}
	return candidate, nil
}

// Remove deletes the descriptor at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove descriptor %s: %w", path, err)
	}
	return nil
}
