package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Image is one stock manifest entry.
type Image struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Alt      string   `json:"alt,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Path     string   `json:"path,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
}

type manifestFile struct {
	Images []Image `json:"images"`
}

// Manifest indexes the stock images available as primary assets. It is
// immutable once loaded.
type Manifest struct {
	images []Image
	byID   map[string]int
}

// LoadManifest reads every *.json file of fsys in lexical order. Duplicate
// identifiers are rejected.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	if fsys == nil {
		return nil, errors.New("assets: manifest fs is nil")
	}
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("assets: list manifest files: %w", err)
	}
	sort.Strings(files)

	m := &Manifest{byID: map[string]int{}}
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("assets: read %s: %w", name, err)
		}
		var file manifestFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("assets: parse %s: %w", name, err)
		}
		for _, image := range file.Images {
			image.ID = strings.TrimSpace(image.ID)
			if image.ID == "" {
				return nil, fmt.Errorf("assets: %s: image without id", name)
			}
			if _, dup := m.byID[image.ID]; dup {
				return nil, fmt.Errorf("assets: %s: duplicate image %q", name, image.ID)
			}
			m.byID[image.ID] = len(m.images)
			m.images = append(m.images, image)
		}
	}
	return m, nil
}

// Len reports the number of images.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.images)
}

// Has reports whether id is listed.
func (m *Manifest) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// Get returns the entry for id.
func (m *Manifest) Get(id string) (Image, bool) {
	if m == nil {
		return Image{}, false
	}
	idx, ok := m.byID[strings.TrimSpace(id)]
	if !ok {
		return Image{}, false
	}
	return cloneImage(m.images[idx]), true
}

// Search filters images in manifest order. query matches id, alt text and
// tags case-insensitively; category must match exactly when set. A limit of
// zero or less returns every match.
func (m *Manifest) Search(query, category string, limit int) []Image {
	if m == nil {
		return nil
	}
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)

	out := []Image{}
	for _, image := range m.images {
		if category != "" && image.Category != category {
			continue
		}
		if query != "" && !image.matches(query) {
			continue
		}
		out = append(out, cloneImage(image))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (img Image) matches(query string) bool {
	if strings.Contains(strings.ToLower(img.ID), query) || strings.Contains(strings.ToLower(img.Alt), query) {
		return true
	}
	return slices.ContainsFunc(img.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

func cloneImage(img Image) Image {
	img.Tags = slices.Clone(img.Tags)
	return img
}

// ManifestCache loads each manifest file set once per process. Concurrent
// first callers for the same key share a single load; loaded manifests are
// never evicted.
type ManifestCache struct {
	group  singleflight.Group
	mu     sync.RWMutex
	loaded map[string]*Manifest
}

// Load returns the manifest cached under key, reading fsys on first use.
// Failed loads are not cached.
func (c *ManifestCache) Load(key string, fsys fs.FS) (*Manifest, error) {
	c.mu.RLock()
	m, ok := c.loaded[key]
	c.mu.RUnlock()
	if ok {
		return m, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.loaded[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		m, err := LoadManifest(fsys)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.loaded == nil {
			c.loaded = map[string]*Manifest{}
		}
		c.loaded[key] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manifest), nil
}

var processCache ManifestCache

// DefaultManifest returns the embedded stock manifest.
func DefaultManifest() (*Manifest, error) {
	return processCache.Load("embedded", EmbeddedFS())
}

// ManifestFromDir loads a manifest directory through the process cache.
func ManifestFromDir(key string, fsys fs.FS) (*Manifest, error) {
	return processCache.Load("dir:"+key, fsys)
}
