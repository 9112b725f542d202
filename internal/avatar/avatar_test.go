package avatar

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	assert.Equal(t,
		"https://api.dicebear.com/8.x/personas/svg?seed=abc-123&size=128&radius=50",
		URL("abc-123", StylePersonas))
	assert.Equal(t,
		"https://api.dicebear.com/8.x/adventurer/svg?seed=a+b&size=128&radius=50",
		URL("a b", ""))
}

func TestParseStyle(t *testing.T) {
	st, ok := ParseStyle("")
	assert.True(t, ok)
	assert.Equal(t, DefaultStyle, st)

	st, ok = ParseStyle("lorelei")
	assert.True(t, ok)
	assert.Equal(t, StyleLorelei, st)

	_, ok = ParseStyle("pixel-art")
	assert.False(t, ok)

	assert.Len(t, Styles(), 4)
}

func TestDataURISize(t *testing.T) {
	raw := strings.Repeat("x", 1000)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(raw))
	n, err := DataURISize(uri)
	require.NoError(t, err)
	assert.Equal(t, 1000, n)

	n, err = DataURISize("data:image/svg+xml,<svg/>")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = DataURISize("https://example.com/a.png")
	assert.Error(t, err)
}

func TestIsNoPicture(t *testing.T) {
	tests := []struct {
		name       string
		avatarType string
		image      string
		want       bool
	}{
		{"no image", "upload", "", true},
		{"generated", "avatar_seed", "https://api.dicebear.com/8.x/adventurer/svg?seed=x", true},
		{"uploaded data uri", "upload", "data:image/png;base64,AAAA", false},
		{"provider picture", "upload", "https://pbs.twimg.com/profile_images/1/a.jpg", false},
		{"provider default", "upload", "https://abs.twimg.com/sticky/default_profile_images/default_profile.png", true},
		{"garbage", "upload", "not-a-picture", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNoPicture(tt.avatarType, tt.image))
		})
	}
}
