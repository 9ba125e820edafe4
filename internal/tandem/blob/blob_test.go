package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	day := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	key, err := NewKey(day, "Me.PNG")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(key, "profiles/2024/5/1/"), key)
	require.True(t, strings.HasSuffix(key, ".png"), key)

	other, err := NewKey(day, "me.png")
	require.NoError(t, err)
	require.NotEqual(t, key, other)

	_, err = NewKey(day, "script.sh")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestContentTypeFor(t *testing.T) {
	require.Equal(t, "image/jpeg", ContentTypeFor("a.jpg", ""))
	require.Equal(t, "image/png", ContentTypeFor("a.bin", "image/png"))
	require.Equal(t, "image/webp", ContentTypeFor("a.webp", "application/octet-stream"))
}

func TestLocalPutDeleteURL(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "data")
	l := NewLocal(root)
	l.BaseURL = "/static/"

	p, err := l.Put(ctx, "avatar.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(p, "uploads/profiles/"), p)

	full, err := l.resolve(p)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(full, root))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	require.Equal(t, "jpegbytes", string(data))

	u, err := l.URL(ctx, p)
	require.NoError(t, err)
	require.Equal(t, "/static/"+p, u)

	require.NoError(t, l.Delete(ctx, p))
	_, err = os.Stat(full)
	require.True(t, os.IsNotExist(err))
	require.NoError(t, l.Delete(ctx, p))
}

func TestLocalRejectsEscapes(t *testing.T) {
	l := NewLocal(t.TempDir())
	_, err := l.URL(context.Background(), "/etc/passwd")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, l.Delete(context.Background(), "uploads/../secret"), ErrNotFound)
	require.ErrorIs(t, l.Delete(context.Background(), "uploads/profiles/../../../etc"), ErrNotFound)
}
