// Package catalog loads the portfolio file that lists gallery items.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmcdole/folio/internal/domain"
)

// file is the on-disk layout. JSON parses too since it is valid YAML.
type file struct {
	Items []itemDTO `yaml:"items"`
}

type itemDTO struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Subtitle    string     `yaml:"subtitle"`
	Description []string   `yaml:"description"`
	Tags        []string   `yaml:"tags"`
	Year        int        `yaml:"year"`
	Images      []string   `yaml:"images"`
	Videos      []videoDTO `yaml:"videos"`
	Tools       []toolDTO  `yaml:"tools"`
	Specs       []specDTO  `yaml:"specs"`
	Meta        metaDTO    `yaml:"meta"`
}

type videoDTO struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

type toolDTO struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type specDTO struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type metaDTO struct {
	Platform string `yaml:"platform"`
	Quality  string `yaml:"quality"`
}

// Catalog is an immutable, validated set of gallery items.
type Catalog struct {
	path  string
	items []domain.Item
	byID  map[string]int
}

// Load reads and validates the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c, err := Parse(data, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.path = abs
	return c, nil
}

// Parse decodes catalog data. Relative refs resolve against baseDir.
func Parse(data []byte, baseDir string) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}

	c := &Catalog{
		items: make([]domain.Item, 0, len(f.Items)),
		byID:  make(map[string]int, len(f.Items)),
	}

	var errs []error
	for n, dto := range f.Items {
		item, err := dto.toItem(baseDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %d: %w", n+1, err))
			continue
		}
		if _, dup := c.byID[item.ID]; dup {
			errs = append(errs, fmt.Errorf("item %d: duplicate id %q", n+1, item.ID))
			continue
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, errors.Join(errs...))
	}
	return c, nil
}

func (d itemDTO) toItem(baseDir string) (domain.Item, error) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return domain.Item{}, errors.New("missing id")
	}
	if len(d.Images) > 0 && len(d.Videos) > 0 {
		return domain.Item{}, fmt.Errorf("%q has both images and videos", id)
	}

	item := domain.Item{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Subtitle:    strings.TrimSpace(d.Subtitle),
		Description: nonEmpty(d.Description),
		Tags:        normalizeTags(d.Tags),
		Year:        d.Year,
		Meta:        domain.VideoMeta{Platform: d.Meta.Platform, Quality: d.Meta.Quality},
	}

	for _, ref := range d.Images {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		item.Images = append(item.Images, ResolveRef(baseDir, ref))
	}
	for _, v := range d.Videos {
		if strings.TrimSpace(v.ID) == "" {
			return domain.Item{}, fmt.Errorf("%q has a video without an id", id)
		}
		item.Videos = append(item.Videos, domain.Video{ID: strings.TrimSpace(v.ID), Title: v.Title})
	}
	for _, t := range d.Tools {
		icon := strings.TrimSpace(t.Icon)
		if icon != "" {
			icon = ResolveRef(baseDir, icon)
		}
		item.Tools = append(item.Tools, domain.Tool{Name: strings.TrimSpace(t.Name), Icon: icon})
	}
	for _, s := range d.Specs {
		item.Specs = append(item.Specs, domain.Spec{Label: s.Label, Value: s.Value})
	}
	return item, nil
}

// ResolveRef joins a relative filesystem ref onto baseDir. URLs and absolute
// paths are returned unchanged.
func ResolveRef(baseDir, ref string) string {
	if IsRemote(ref) || filepath.IsAbs(ref) || baseDir == "" {
		return ref
	}
	return filepath.Join(baseDir, filepath.FromSlash(ref))
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func nonEmpty(paras []string) []string {
	var out []string
	for _, p := range paras {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Path returns the absolute path the catalog was loaded from, if any.
func (c *Catalog) Path() string {
	return c.path
}

// Items returns all items in declaration order.
func (c *Catalog) Items() []domain.Item {
	out := make([]domain.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (domain.Item, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return c.items[i], nil
}

// ImageRefs returns every slide ref across all items, de-duplicated, in
// first-seen order.
func (c *Catalog) ImageRefs() []string {
	seen := make(map[string]bool)
	var refs []string
	for _, item := range c.items {
		for _, ref := range item.Images {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
		}
	}
	return refs
}

var _ domain.Catalog = (*Catalog)(nil)
