package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Add testing user after verifying it doesn't exist", "add-testing-user-after-verifying-it-doesn-t-exist"},
		{"Login successfully with admin/admin123", "login-successfully-with-admin-admin123"},
		{"Edit user works (add, edit, save, verify)", "edit-user-works-add-edit-save-verify"},
		{"  --Trim me--  ", "trim-me"},
		{"!!!", ""},
		{"Café", "caf"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestBrowserLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add-testing-user-chromium-1.png", "chromium"},
		{"login-firefox-failed.png", "firefox"},
		{"a-b.png", "a"},
		{"single.png", FallbackBrowser},
		// names with dashes shift the browser segment
		{"start-and-stop-chromium-start-stop.png", "start"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, BrowserLabel(tt.input))
		})
	}
}

func TestCorrelator_ScenarioD(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"add-testing-user-after-verifying-it-doesnt-exist-chromium-1.png",
		"add-testing-user-after-verifying-it-doesnt-exist-chromium-1.jpg",
		"login-successfully-with-admin-admin123-firefox-1.png",
	)

	title := "Add testing user after verifying it doesnt exist"
	c := NewCorrelator(dir, []string{title, "Login successfully with admin/admin123"})

	shots := c.Screenshots(title)
	require.Len(t, shots, 1)
	assert.Equal(t, "add-testing-user-after-verifying-it-doesnt-exist-chromium-1.png", shots[0].Name)
	assert.Equal(t, "chromium", shots[0].Browser)
	assert.Equal(t, filepath.Join(dir, shots[0].Name), shots[0].Path)
}

func TestCorrelator_ApostropheTitle(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"add-testing-user-after-verifying-it-doesnt-exist-chromium-1.png",
		"add-testing-user-after-verifying-it-doesn-t-exist-firefox-1.png",
	)

	title := "Add testing user after verifying it doesn't exist"
	shots := NewCorrelator(dir, []string{title}).Screenshots(title)
	require.Len(t, shots, 1)
	assert.Equal(t, "add-testing-user-after-verifying-it-doesn-t-exist-firefox-1.png", shots[0].Name)
}

func TestCorrelator_SortedAndDeterministic(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"delete-employee-works-webkit-1.png",
		"delete-employee-works-chromium-2.png",
		"delete-employee-works-firefox-1.png",
		"delete-employee-works-chromium-1.png",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "delete-employee-works-dir.png"), 0755))

	c := NewCorrelator(dir, []string{"Delete employee works"})
	first := c.Screenshots("Delete employee works")
	second := c.Screenshots("Delete employee works")

	require.Len(t, first, 4)
	assert.Equal(t, first, second)

	var names []string
	for _, s := range first {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"delete-employee-works-chromium-1.png",
		"delete-employee-works-chromium-2.png",
		"delete-employee-works-firefox-1.png",
		"delete-employee-works-webkit-1.png",
	}, names)
}

func TestCorrelator_LongerSlugWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"delete-employee-works-chromium-1.png",
		"delete-employee-works-again-cleanup-another-user-chromium-1.png",
	)

	short := "Delete employee works"
	long := "Delete employee works again (cleanup another user)"
	c := NewCorrelator(dir, []string{short, long})

	shots := c.Screenshots(short)
	require.Len(t, shots, 1)
	assert.Equal(t, "delete-employee-works-chromium-1.png", shots[0].Name)

	shots = c.Screenshots(long)
	require.Len(t, shots, 1)
	assert.Equal(t, "delete-employee-works-again-cleanup-another-user-chromium-1.png", shots[0].Name)
}

func TestCorrelator_MissingDir(t *testing.T) {
	c := NewCorrelator(filepath.Join(t.TempDir(), "nope"), []string{"Anything"})
	assert.Empty(t, c.Screenshots("Anything"))
}

func TestCorrelator_EmptySlug(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "-chromium-1.png")
	c := NewCorrelator(dir, []string{"???"})
	assert.Empty(t, c.Screenshots("???"))
}
