package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func TestStage(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "imports"))

	written, err := s.Stage("tag", "tag_news", record{ID: "tag_news", Title: "News"}, true)
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filepath.Join(s.Root(), "tag", "tag_news.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"tag_news","title":"News"}`, string(data))

	_, err = os.Stat(filepath.Join(s.Root(), "tag", "tag_news.json.tmp"))
	assert.True(t, os.IsNotExist(err), "temporary file must not be left behind")
}

func TestStageSkipIfExists(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Stage("tag", "tag_news", record{Title: "News"}, true)
	require.NoError(t, err)

	written, err := s.Stage("tag", "tag_news", record{Title: "Changed"}, false)
	require.NoError(t, err)
	assert.False(t, written)

	data, err := os.ReadFile(s.Path("tag", "tag_news"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "News")

	written, err = s.Stage("tag", "tag_new", record{Title: "Fresh"}, false)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestStageIsIdempotent(t *testing.T) {
	s := New(t.TempDir())
	rec := record{ID: "post_1", Title: "Hello"}

	_, err := s.Stage("post", "post_1", rec, true)
	require.NoError(t, err)
	once, err := os.ReadFile(s.Path("post", "post_1"))
	require.NoError(t, err)

	_, err = s.Stage("post", "post_1", rec, true)
	require.NoError(t, err)
	twice, err := os.ReadFile(s.Path("post", "post_1"))
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestStageOverwrites(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Stage("post", "post_1", record{Title: "Old"}, true)
	require.NoError(t, err)
	_, err = s.Stage("post", "post_1", record{Title: "New"}, true)
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path("post", "post_1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"","title":"New"}`, string(data))
}

func TestStageInvalidNames(t *testing.T) {
	s := New(t.TempDir())

	tests := []struct {
		name string
		kind string
		id   string
	}{
		{name: "Empty id", kind: "post", id: ""},
		{name: "Path separator in id", kind: "post", id: "../escape"},
		{name: "Dot dot kind", kind: "..", id: "post_1"},
		{name: "Backslash in kind", kind: `a\b`, id: "post_1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			written, err := s.Stage(tt.kind, tt.id, record{}, true)
			assert.False(t, written)
			assert.True(t, errors.Is(err, ErrInvalidID))
		})
	}
}

func TestStageUnencodable(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Stage("post", "post_1", make(chan int), true)
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "imports"))
	_, err := s.Stage("post", "post_1", record{}, true)
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	_, err = os.Stat(s.Root())
	assert.True(t, os.IsNotExist(err))
}
