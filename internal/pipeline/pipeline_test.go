package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takak2166/wordpress2sanity/internal/aggregate"
	"github.com/takak2166/wordpress2sanity/internal/config"
	"github.com/takak2166/wordpress2sanity/internal/models"
	"github.com/takak2166/wordpress2sanity/internal/parser"
	"github.com/takak2166/wordpress2sanity/internal/pipeline/mock_pipeline"
	"github.com/takak2166/wordpress2sanity/internal/store"
)

var defaultOptions = Options{
	PostTypes:    []string{"post", "page"},
	OutputFormat: config.FormatSanity,
}

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func TestProcessFileStagesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stager := mock_pipeline.NewMockStager(ctrl)

	var post *models.Document
	gomock.InOrder(
		stager.EXPECT().Stage("author", "author_1", gomock.Any(), true).Return(true, nil),
		stager.EXPECT().Stage("category", "category_travel", gomock.Any(), true).Return(true, nil),
		stager.EXPECT().Stage("tag", "tag_news", gomock.Any(), true).Return(true, nil),
		stager.EXPECT().Stage("post", "post_12", gomock.AssignableToTypeOf(&models.Document{}), true).
			DoAndReturn(func(_, _ string, record interface{}, _ bool) (bool, error) {
				post = record.(*models.Document)
				return true, nil
			}),
	)

	r := New(stager, defaultOptions)
	require.NoError(t, r.ProcessFile(testdata("a-first.xml")))

	require.NotNil(t, post)
	require.NotNil(t, post.MainImage, "attachment declared after the post must still resolve")
	assert.Equal(t, "https://notes.example.com/wp-content/uploads/cover.jpg", post.MainImage.URL())
	assert.Equal(t, &models.Reference{Type: "reference", Ref: "author_1"}, post.Author)

	summary := r.Summary()
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 1, summary.Documents)
	assert.Equal(t, 1, summary.Attachments)
	assert.Equal(t, 1, summary.ItemsSkipped)
}

func TestRunStagesEachTermOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stager := mock_pipeline.NewMockStager(ctrl)
	stager.EXPECT().Stage("tag", "tag_news", gomock.Any(), true).Return(true, nil).Times(1)
	stager.EXPECT().Stage(gomock.Not("tag"), gomock.Any(), gomock.Any(), true).Return(true, nil).AnyTimes()

	summary, err := New(stager, defaultOptions).Run(context.Background(), []string{
		testdata("a-first.xml"),
		testdata("b-second.xml"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Tags)
	assert.Equal(t, 1, summary.Categories)
	assert.Equal(t, 2, summary.Authors)
	assert.Equal(t, 3, summary.Documents)
}

func TestRunSkipsUnparsableFiles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stager := mock_pipeline.NewMockStager(ctrl)
	stager.EXPECT().Stage(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(true, nil).AnyTimes()

	summary, err := New(stager, defaultOptions).Run(context.Background(), []string{
		testdata("broken.xml"),
		testdata("missing.xml"),
		testdata("b-second.xml"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.FilesSkipped)
	assert.Equal(t, 1, summary.Files)
	assert.Equal(t, 2, summary.Documents)
}

func TestRunAbortsOnMissingItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stager := mock_pipeline.NewMockStager(ctrl)

	_, err := New(stager, defaultOptions).Run(context.Background(), []string{
		testdata("empty.xml"),
		testdata("a-first.xml"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrMissingItems))
}

func TestRunAbortsOnStageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	diskFull := errors.New("disk full")
	stager := mock_pipeline.NewMockStager(ctrl)
	stager.EXPECT().Stage("author", "author_1", gomock.Any(), true).Return(false, diskFull)

	_, err := New(stager, defaultOptions).Run(context.Background(), []string{testdata("a-first.xml")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, diskFull))
	assert.Contains(t, err.Error(), "author_1")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(mock_pipeline.NewMockStager(ctrl), defaultOptions).Run(ctx, []string{testdata("a-first.xml")})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	s := store.New(root)

	summary, err := New(s, defaultOptions).Run(context.Background(), []string{
		testdata("a-first.xml"),
		testdata("b-second.xml"),
	})
	require.NoError(t, err)

	tags, err := os.ReadDir(filepath.Join(root, "tag"))
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "tag_news.json", tags[0].Name())

	var published, draft map[string]interface{}
	readJSON(t, s.Path("post", "post_12"), &published)
	readJSON(t, s.Path("post", "drafts.post_70"), &draft)

	newsRef := []interface{}{map[string]interface{}{"_type": "tag", "_ref": "tag_news"}}
	assert.Equal(t, newsRef, published["tags"])
	assert.Equal(t, newsRef, draft["tags"])

	assert.Equal(t, map[string]interface{}{
		"_type":        "image",
		"_sanityAsset": "image@https://notes.example.com/wp-content/uploads/cover.jpg",
	}, published["mainImage"])
	assert.Equal(t, "2021-07-21T10:00:00Z", published["publishedAt"])

	assert.NotContains(t, draft, "mainImage", "thumbnails only resolve within the same export file")
	assert.NotContains(t, draft, "publishedAt")
	assert.Equal(t, "second-post", draft["slug"].(map[string]interface{})["current"])

	var page map[string]interface{}
	readJSON(t, s.Path("page", "page_40"), &page)
	assert.Equal(t, []interface{}{}, page["body"])
	assert.NotContains(t, page, "author")
	assert.NotContains(t, page, "tags")

	var out bytes.Buffer
	count, err := aggregate.Aggregate(root, &out)
	require.NoError(t, err)
	staged := summary.Authors + summary.Categories + summary.Tags + summary.Documents
	assert.Equal(t, staged, count)
	assert.Equal(t, 7, count)
}

func TestRunResolvesAttachmentDeclaredFirst(t *testing.T) {
	s := store.New(t.TempDir())

	_, err := New(s, defaultOptions).Run(context.Background(), []string{testdata("c-attachment-first.xml")})
	require.NoError(t, err)

	var post map[string]interface{}
	readJSON(t, s.Path("post", "post_81"), &post)
	assert.Equal(t, map[string]interface{}{
		"_type":        "image",
		"_sanityAsset": "image@https://notes.example.com/wp-content/uploads/header.png",
	}, post["mainImage"])
	assert.Equal(t, []interface{}{}, post["categories"])
	assert.Equal(t, []interface{}{}, post["tags"])
}

func TestRunNotionFormat(t *testing.T) {
	s := store.New(t.TempDir())
	opts := defaultOptions
	opts.OutputFormat = config.FormatNotion
	opts.NotionParentPageID = "parent-page"

	_, err := New(s, opts).Run(context.Background(), []string{testdata("a-first.xml")})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path("post", "post_12"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"post_12"`, string(raw["_id"]))
	assert.JSONEq(t, `"post"`, string(raw["_type"]))

	assert.Contains(t, raw, "page")
	assert.Contains(t, string(raw["page"]), `"parent-page"`)
	assert.Contains(t, string(raw["page"]), `"Travel"`)
}

func readJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
