// Package loader reads book trees from a data directory laid out as
// <root>/<source path>/<book id>.json.
package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"harshagw/qanun/internal/source"
	"harshagw/qanun/internal/tree"
)

const DefaultCacheSize = 32

type Options struct {
	// CacheSize is the number of parsed books kept in memory.
	CacheSize int
	Logger    zerolog.Logger
}

// Dir loads books from disk and caches the parsed trees. Cached trees are
// shared and must be treated as read-only.
type Dir struct {
	root     string
	registry *source.Registry
	cache    *lru.Cache[string, *tree.Node]
	log      zerolog.Logger
}

func New(root string, registry *source.Registry, opts Options) (*Dir, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	d := &Dir{root: root, registry: registry, log: opts.Logger}
	cache, err := lru.NewWithEvict[string, *tree.Node](opts.CacheSize, d.handleEviction)
	if err != nil {
		return nil, err
	}
	d.cache = cache
	return d, nil
}

func (d *Dir) handleEviction(key string, _ *tree.Node) {
	d.log.Debug().Str("book", key).Msg("book evicted from cache")
}

// Root returns the data directory.
func (d *Dir) Root() string { return d.root }

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func (d *Dir) bookPath(src source.Source, id string) string {
	return filepath.Join(d.root, src.Path, id+".json")
}

// BookIDs lists the books of a source: the catalog's list when it has one,
// else the sorted names of the JSON files in the source directory. Unknown
// sources and missing directories yield no books.
func (d *Dir) BookIDs(key string) ([]string, error) {
	src, ok := d.registry.Get(key)
	if !ok {
		return nil, nil
	}
	if len(src.Books) > 0 {
		return src.Books, nil
	}

	entries, err := os.ReadDir(filepath.Join(d.root, src.Path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Book returns the parsed tree of a book. A missing file or unknown source
// is reported as not found; unreadable or malformed files are errors.
func (d *Dir) Book(key, id string) (*tree.Node, bool, error) {
	src, ok := d.registry.Get(key)
	if !ok || !validID(id) {
		return nil, false, nil
	}
	cacheKey := key + "/" + id
	if root, ok := d.cache.Get(cacheKey); ok {
		return root, true, nil
	}

	path := d.bookPath(src, id)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read book %s: %w", cacheKey, err)
	}

	var root tree.Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, false, fmt.Errorf("failed to parse book %s: %w", cacheKey, err)
	}
	d.cache.Add(cacheKey, &root)
	d.log.Debug().Str("book", cacheKey).Int("bytes", len(data)).Msg("book loaded")
	return &root, true, nil
}

// Fingerprint hashes the relative path, size and modification time of every
// book file. It changes whenever a book is added, removed or rewritten.
func (d *Dir) Fingerprint() (string, error) {
	h := sha256.New()
	for _, src := range d.registry.List() {
		ids, err := d.BookIDs(src.Key)
		if err != nil {
			return "", err
		}
		for _, id := range ids {
			info, err := os.Stat(d.bookPath(src, id))
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return "", err
			}
			fmt.Fprintf(h, "%s/%s.json\x00%d\x00%d\n", src.Path, id, info.Size(), info.ModTime().UnixNano())
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Purge drops every cached book.
func (d *Dir) Purge() { d.cache.Purge() }
