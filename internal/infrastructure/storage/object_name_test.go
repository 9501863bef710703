package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := objectName("/courses/videos/", "video/mp4")
	assert.True(t, strings.HasPrefix(name, "courses/videos/"))
	assert.True(t, strings.HasSuffix(name, ".mp4"))

	assert.True(t, strings.HasSuffix(objectName("avatars", "IMAGE/PNG"), ".png"))
	assert.True(t, strings.HasSuffix(objectName("avatars", "text/plain"), ".bin"))
	assert.NotEqual(t, objectName("a", "image/png"), objectName("a", "image/png"))
}

func TestObjectFromURL(t *testing.T) {
	c := NewSupabaseStorageClient("https://proj.supabase.co/", "key", "uploads")

	name, err := objectFromURL(c.publicPrefix()+"avatars/x.png", c.publicPrefix())
	require.NoError(t, err)
	assert.Equal(t, "avatars/x.png", name)

	_, err = objectFromURL("https://elsewhere.example.com/x.png", c.publicPrefix())
	assert.Error(t, err)

	_, err = objectFromURL(c.publicPrefix(), c.publicPrefix())
	assert.Error(t, err)
}
