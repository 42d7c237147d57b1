package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
)

const sampleYAML = `
items:
  - id: item-a
    title: Aerofront
    subtitle: 3D Animation Project
    description:
      - First paragraph.
      - "  "
      - Second paragraph.
    tags: [Blender, 3D, blender]
    year: 2024
    images:
      - portfolioAssets/aerofront_vol3.jpg
      - https://cdn.example.com/example1.webp
      - /srv/shared/example2.png
    tools:
      - name: Blender
        icon: vectors/blender.svg
      - name: substance
    specs:
      - label: Resolution
        value: 4K UHD
  - id: item-roblox
    title: Animations
    videos:
      - id: UZMxl3AKLOI
        title: Music Video Recreation
      - id: dQw4w9WgXcQ
    meta:
      platform: YouTube
      quality: HD 1080p
  - id: item-c
    images:
      - portfolioAssets/aerofront_vol3.jpg
`

func TestParse_Items(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), "/site")
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "item-a", items[0].ID)
	assert.Equal(t, "item-roblox", items[1].ID)
	assert.Equal(t, "item-c", items[2].ID)

	a := items[0]
	assert.Equal(t, []string{"First paragraph.", "Second paragraph."}, a.Description)
	assert.Equal(t, []string{"blender", "3d"}, a.Tags)
	assert.Equal(t, 2024, a.Year)
	assert.Equal(t, []string{
		filepath.Join("/site", "portfolioAssets", "aerofront_vol3.jpg"),
		"https://cdn.example.com/example1.webp",
		"/srv/shared/example2.png",
	}, a.Images)
	assert.Equal(t, filepath.Join("/site", "vectors", "blender.svg"), a.Tools[0].Icon)
	assert.Equal(t, "S", a.Tools[1].FallbackLetter())
	assert.Equal(t, []domain.Spec{{Label: "Resolution", Value: "4K UHD"}}, a.Specs)

	v := items[1]
	assert.Equal(t, domain.ItemKindVideo, v.Kind())
	assert.Len(t, v.Videos, 2)
	assert.Equal(t, "HD 1080p", v.Meta.QualityOrDefault())

	assert.Equal(t, "item-c", items[2].DisplayTitle())
}

func TestParse_JSON(t *testing.T) {
	data := `{"items": [{"id": "item-j", "title": "JSON", "images": ["a.png"]}]}`
	c, err := Parse([]byte(data), "")
	require.NoError(t, err)

	item, err := c.Get("item-j")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, item.Images)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"missing id", "items:\n  - title: x\n", "missing id"},
		{"duplicate id", "items:\n  - id: a\n  - id: a\n", `duplicate id "a"`},
		{"mixed media", "items:\n  - id: a\n    images: [x.png]\n    videos: [{id: v}]\n", "both images and videos"},
		{"video without id", "items:\n  - id: a\n    videos: [{title: t}]\n", "video without an id"},
		{"malformed", "items: [", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), "")
	require.NoError(t, err)

	_, err = c.Get("item-zz")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestImageRefs_Deduplicated(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), "/site")
	require.NoError(t, err)

	refs := c.ImageRefs()
	assert.Len(t, refs, 3)
	assert.Equal(t, filepath.Join("/site", "portfolioAssets", "aerofront_vol3.jpg"), refs[0])
}

func TestLoad_ResolvesAgainstFileDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: a\n    images: [img/one.png]\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	item, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "img", "one.png"), item.Images[0])
	assert.Equal(t, path, c.Path())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.com/a.png"))
	assert.True(t, IsRemote("http://example.com/a.png"))
	assert.False(t, IsRemote("portfolioAssets/a.png"))
	assert.False(t, IsRemote("file:///tmp/a.png"))
	assert.False(t, IsRemote(`C:\images\a.png`))
}
