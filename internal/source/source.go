package source

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"harshagw/qanun/internal/tree"
)

// Source describes one legal code served by the library.
type Source struct {
	Key         string   `yaml:"key" json:"key"`
	Label       string   `yaml:"label" json:"label"`
	Path        string   `yaml:"path" json:"path"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	ArticleTerm string   `yaml:"articleTerm" json:"articleTerm"`
	Books       []string `yaml:"books,omitempty" json:"books,omitempty"`
}

// Registry is an ordered, read-only catalog of sources.
type Registry struct {
	sources []Source
	byKey   map[string]int
}

// New builds a registry. Keys must be unique and non-empty.
func New(sources ...Source) (*Registry, error) {
	r := &Registry{
		sources: make([]Source, 0, len(sources)),
		byKey:   make(map[string]int, len(sources)),
	}
	for _, s := range sources {
		if s.Key == "" {
			return nil, fmt.Errorf("source with label %q has no key", s.Label)
		}
		if _, dup := r.byKey[s.Key]; dup {
			return nil, fmt.Errorf("duplicate source key %q", s.Key)
		}
		if s.Path == "" {
			s.Path = s.Key
		}
		r.byKey[s.Key] = len(r.sources)
		r.sources = append(r.sources, s)
	}
	return r, nil
}

// Default returns the built-in catalog.
func Default() *Registry {
	r, err := New(
		Source{
			Key:         "cpp",
			Label:       "قانون المسطرة الجنائية",
			Path:        "cpp",
			Description: "القانون رقم 22.01 المعدل بالقانون رقم 03.23",
			ArticleTerm: "المادة",
			Books: []string{
				"book_0", "book_1st", "book_2nd", "book_3rd", "book_4th",
				"book_5th", "book_6th", "book_7th", "book_8th",
			},
		},
		Source{
			Key:         "dp",
			Label:       "القانون الجنائي (العام والخاص)",
			Path:        "dp",
			Description: "القانون الجنائي المغربي",
			ArticleTerm: "الفصل",
			Books:       []string{"code_book_0", "code_book_1", "code_book_2", "code_book_3"},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the source registered under key.
func (r *Registry) Get(key string) (Source, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

// List returns all sources in declaration order.
func (r *Registry) List() []Source {
	return append([]Source(nil), r.sources...)
}

// Keys returns the source keys in declaration order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.sources))
	for i, s := range r.sources {
		keys[i] = s.Key
	}
	return keys
}

func (r *Registry) Valid(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// ByPath returns the source whose data path is path.
func (r *Registry) ByPath(path string) (Source, bool) {
	for _, s := range r.sources {
		if s.Path == path {
			return s, true
		}
	}
	return Source{}, false
}

// ArticleTerm returns the article term of key, or tree.DefaultArticleTerm for
// unknown keys and sources without one.
func (r *Registry) ArticleTerm(key string) string {
	if s, ok := r.Get(key); ok && s.ArticleTerm != "" {
		return s.ArticleTerm
	}
	return tree.DefaultArticleTerm
}

// Label returns the display label of n using the terminology of key.
func (r *Registry) Label(n *tree.Node, key string) string {
	return n.Label(r.ArticleTerm(key))
}

type catalogFile struct {
	Sources []Source `yaml:"sources" json:"sources"`
}

// LoadFile reads a catalog from YAML or JSON. Unknown extensions try YAML and
// then JSON.
func LoadFile(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source catalog: %w", err)
	}

	var cf catalogFile
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cf)
	case ".json":
		err = json.Unmarshal(b, &cf)
	default:
		if err = yaml.Unmarshal(b, &cf); err != nil {
			err = json.Unmarshal(b, &cf)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse source catalog %s: %w", path, err)
	}
	if len(cf.Sources) == 0 {
		return nil, fmt.Errorf("source catalog %s lists no sources", path)
	}
	return New(cf.Sources...)
}
