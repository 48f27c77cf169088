package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(KindResume, "student-1", ".PDF")

	assert.True(t, strings.HasPrefix(key, "resumes/student-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey(KindResume, "student-1", "pdf"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(t.TempDir(), "http://cdn.local/")
	require.NoError(t, err)

	key := ObjectKey(KindBrochure, "drive-1", "pdf")
	require.NoError(t, st.Save(ctx, key, bytes.NewBufferString("%PDF-1.4"), 8, "application/pdf"))

	ok, err := st.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := st.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	url, err := st.GetURL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "http://cdn.local/"+key, url)

	require.NoError(t, st.Delete(ctx, key))
	_, err = st.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_KeyCannotEscapeBase(t *testing.T) {
	base := t.TempDir()
	st, err := NewLocalStorage(base, "")
	require.NoError(t, err)

	full, err := st.resolve("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(full, base))

	_, err = st.resolve("/")
	assert.Error(t, err)
}
