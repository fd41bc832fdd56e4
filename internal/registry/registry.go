// Package registry holds the list of monitored status pages.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudpulse/cloudpulse/internal/jsonpath"
	"github.com/cloudpulse/cloudpulse/internal/pulseerr"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidRegistry = errors.New("invalid service registry")
	ErrUnsupportedFile = errors.New("unsupported registry file")
)

// Service is one monitored status page.
type Service struct {
	// Name identifies the service in the history. It must be unique in a Registry.
	Name string `json:"name" yaml:"name"`

	// URL is the JSON status endpoint.
	URL string `json:"url" yaml:"url"`

	// KeyPath is where the status lives in the returned document.
	KeyPath jsonpath.Path `json:"key_path" yaml:"key_path"`

	// Query is a jq expression that is used instead of KeyPath if set.
	Query string `json:"query,omitempty" yaml:"query,omitempty"`
}

// Extractor returns how to take the status out of a response of this service.
func (s Service) Extractor() (jsonpath.Extractor, error) {
	if s.Query != "" {
		return jsonpath.CompileQuery(s.Query)
	}
	return s.KeyPath, nil
}

// Registry is an ordered list of services.
type Registry []Service

// Names returns the service names in registry order.
func (r Registry) Names() []string {
	ns := make([]string, len(r))
	for i, s := range r {
		ns[i] = s.Name
	}
	return ns
}

// Lookup finds a service by name.
func (r Registry) Lookup(name string) (Service, bool) {
	for _, s := range r {
		if s.Name == name {
			return s, true
		}
	}
	return Service{}, false
}

// Validate checks every service and reports all problems at once.
func (r Registry) Validate() error {
	ps := &pulseerr.Problems{What: ErrInvalidRegistry}

	if len(r) == 0 {
		ps.Addf("", "no service is defined")
	}

	seen := make(map[string]int)
	for i, s := range r {
		at := fmt.Sprintf("services[%d]", i)

		name := strings.TrimSpace(s.Name)
		if name == "" {
			ps.Addf(at, "name is empty")
		} else if name == "timestamp" {
			ps.Addf(at, "%q is a reserved name", s.Name)
		} else if j, ok := seen[s.Name]; ok {
			ps.Addf(at, "name %q is already used by services[%d]", s.Name, j)
		} else {
			seen[s.Name] = i
		}

		if s.URL == "" {
			ps.Addf(at, "url is empty")
		} else if u, err := url.Parse(s.URL); err != nil {
			ps.Add(at, err)
		} else if u.Scheme != "http" && u.Scheme != "https" {
			ps.Addf(at, "unsupported scheme %q: only http and https are supported", u.Scheme)
		} else if u.Host == "" {
			ps.Addf(at, "url %q has no host", s.URL)
		}

		for j, seg := range s.KeyPath {
			if seg.IsIndex() && seg.Index() < 0 {
				ps.Addf(fmt.Sprintf("%s.key_path[%d]", at, j), "%w: index %d is negative", jsonpath.ErrInvalidSegment, seg.Index())
			}
		}

		if s.Query != "" {
			if _, err := jsonpath.CompileQuery(s.Query); err != nil {
				ps.Add(at, err)
			}
		}
	}

	return ps.Err()
}

type registryFile struct {
	Services Registry `json:"services" yaml:"services"`
}

// Parse decodes a registry document in the given format, "yaml" or "json".
// The document is either a list of services or an object with a "services" list.
func Parse(data []byte, format string) (Registry, error) {
	var r Registry

	switch format {
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, pulseerr.Wrap(ErrInvalidRegistry, err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.MappingNode {
			var f registryFile
			if err := node.Decode(&f); err != nil {
				return nil, pulseerr.Wrap(ErrInvalidRegistry, err)
			}
			r = f.Services
		} else if err := node.Decode(&r); err != nil {
			return nil, pulseerr.Wrap(ErrInvalidRegistry, err)
		}
	case "json":
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "{") {
			var f registryFile
			if err := json.Unmarshal(data, &f); err != nil {
				return nil, pulseerr.Wrap(ErrInvalidRegistry, err)
			}
			r = f.Services
		} else if err := json.Unmarshal(data, &r); err != nil {
			return nil, pulseerr.Wrap(ErrInvalidRegistry, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrUnsupportedFile, format)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load reads a registry file.
// The format is decided by the extension: .yaml, .yml or .json.
func Load(path string) (Registry, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	default:
		return nil, fmt.Errorf("%w: %s: please use .yaml, .yml or .json", ErrUnsupportedFile, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data, format)
}
