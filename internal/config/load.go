package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Network defaults.
const (
	DefaultIPRange     = "10.0.0.0/16"
	DefaultNetworkZone = "eu-central"
)

// LoadFile reads, defaults and validates a blueprint file. Relative paths
// inside the file are resolved against the file's directory.
func LoadFile(path string) (*File, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprint file: %w", err)
	}

	f, err := LoadFromBytes(data)
	if err != nil {
		return nil, err
	}
	f.resolvePaths(filepath.Dir(path))
	return f, nil
}

// LoadFromBytes parses, defaults and validates a blueprint document.
func LoadFromBytes(data []byte) (*File, error) {
	f, err := parse(data)
	if err != nil {
		return nil, err
	}
	f.ApplyDefaults()
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("blueprint validation failed: %w", err)
	}
	return f, nil
}

func parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("blueprint file is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &f, nil
}

// ApplyDefaults fills in unset optional fields.
func (f *File) ApplyDefaults() {
	if f.Name == "" {
		f.Name = f.ID
	}
	if f.Network.ID == "" {
		if f.Network.IPRange == "" {
			f.Network.IPRange = DefaultIPRange
		}
		if f.Network.Zone == "" {
			f.Network.Zone = DefaultNetworkZone
		}
		if f.Network.PublicSubnets == 0 && f.Network.PrivateSubnets == 0 {
			f.Network.PublicSubnets = 1
			f.Network.PrivateSubnets = 1
		}
	}
	for i := range f.AddOns {
		if f.AddOns[i].Namespace == "" {
			f.AddOns[i].Namespace = f.AddOns[i].Name
		}
	}
	for i := range f.Teams {
		if f.Teams[i].Namespace == "" {
			f.Teams[i].Namespace = f.Teams[i].Name
		}
	}
}

func (f *File) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range f.AddOns {
		a := &f.AddOns[i]
		a.Chart = abs(a.Chart)
		for j := range a.Manifests {
			a.Manifests[j] = abs(a.Manifests[j])
		}
		for j := range a.ValuesFiles {
			a.ValuesFiles[j] = abs(a.ValuesFiles[j])
		}
	}
	if rest, ok := strings.CutPrefix(f.Cluster.Kubeconfig, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			f.Cluster.Kubeconfig = filepath.Join(home, rest)
		}
	}
	f.Cluster.Kubeconfig = abs(f.Cluster.Kubeconfig)
}
