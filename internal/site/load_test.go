package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
)

func TestDefaultContentLoads(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	require.Equal(t, "Texas Quality Plumbing", c.Company.Name)
	require.Equal(t, "(346) 636-2418", c.Company.Phone)
	require.Len(t, c.Services.Items, 6)
	require.Len(t, c.Reviews.Items, 2)
	require.Len(t, c.Promotions.Financing.Partners, 3)
	require.Len(t, c.Areas.Cities, 12)
	require.Equal(t, int64(40000), c.Promotions.Discount.CapCents)

	require.Contains(t, string(c.About.BodyHTML), "<p>At Texas Quality Plumbing")
	require.Equal(t, 2, strings.Count(string(c.About.BodyHTML), "<p>"))

	items := c.Nav.Items()
	require.Len(t, items, 5)
	require.True(t, c.Nav.IsMegaMenu("Services"))
	require.True(t, c.Nav.IsDropdown("About"))
	services, _ := c.Nav.Item("Services")
	require.Len(t, services.Categories, 6)
	_, ok := c.Nav.Leaf("#our-story")
	require.True(t, ok)
}

func TestChecklistHasNoGarbledDuplicates(t *testing.T) {
	t.Parallel()

	c, err := Default()
	require.NoError(t, err)

	require.Len(t, c.Maintenance.Checklist, 9)
	seen := map[string]bool{}
	for _, item := range c.Maintenance.Checklist {
		require.False(t, seen[item], "duplicate checklist item %q", item)
		require.NotContains(t, item, `"`)
		seen[item] = true
	}
	require.Contains(t, c.Maintenance.Checklist, "Garbage Disposal Checked For Proper Operation And Leaks")
}

func TestParseDedupesRepeatedBullets(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		[]string{"Inspect All Toilets", "Exposed Water Lines Are Examined"},
		dedupe([]string{"Inspect All Toilets", "Exposed   Water Lines Are Examined", "Exposed Water Lines Are Examined", " "}),
	)
}

func TestRenderMarkdownSanitises(t *testing.T) {
	t.Parallel()

	html, err := RenderMarkdown("**Licensed** plumbers <script>alert(1)</script>")
	require.NoError(t, err)
	require.Contains(t, string(html), "<strong>Licensed</strong>")
	require.NotContains(t, string(html), "<script>")

	empty, err := RenderMarkdown("   ")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestParseRejectsInvalidContent(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
company: { name: "", phone: "" }
reviews:
  items:
    - { name: A, text: B, rating: 7 }
promotions:
  discount: { percent: 0 }
areas:
  map_url: http://maps.example.com/embed
navigation:
  - { label: Home, href: "/" }
`))
	require.ErrorIs(t, err, ErrInvalidContent)
	for _, want := range []string{"company.name", "company.phone", "rating", "percent", "map_url"} {
		require.Contains(t, err.Error(), want)
	}
}

func TestParseRejectsInvalidNavigation(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`
company: { name: Acme, phone: "1" }
promotions:
  discount: { percent: 10 }
navigation:
  - { label: Services, kind: mega }
`))
	require.ErrorIs(t, err, menu.ErrInvalidTree)

	_, err = Parse([]byte(`
company: { name: Acme, phone: "1" }
promotions:
  discount: { percent: 10 }
navigation:
  - { label: Services, href: "#s", kind: carousel }
`))
	require.ErrorIs(t, err, menu.ErrInvalidTree)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
company: { name: Acme Plumbing, phone: "(555) 010-0000" }
promotions:
  discount: { percent: 15 }
navigation:
  - { label: Home, href: "/" }
`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Acme Plumbing", c.Company.Name)
	require.Len(t, c.Nav.Items(), 1)

	c, err = LoadFile("")
	require.NoError(t, err)
	require.Equal(t, "Texas Quality Plumbing", c.Company.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
