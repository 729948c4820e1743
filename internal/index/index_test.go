package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func corpus() []Document {
	return []Document{
		{ID: "mail/1.txt", Text: "Click here to claim your free prize now", Label: LabelSpam, Origin: "train"},
		{ID: "mail/2.txt", Text: "Meeting notes for the quarterly review", Label: LabelHam, Origin: "train"},
		{ID: "mail/3.txt", Text: "Verify your account to receive a free gift", Label: LabelSpam, Origin: "train"},
		{ID: "mail/4.txt", Text: "Lunch is free on Friday for the team", Label: LabelHam, Origin: "train"},
		{ID: "inbox/5.txt", Text: "Limited offer just for you", Origin: "classify"},
	}
}

func TestLabelName(t *testing.T) {
	assert.Equal(t, LabelSpam, LabelName(1))
	assert.Equal(t, LabelHam, LabelName(0))
}

func TestIndexBatchAndCount(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), count)
}

func TestIndexDocumentReplaces(t *testing.T) {
	idx := newTestIndex(t)
	doc := Document{ID: "a.txt", Text: "winner winner", Label: LabelSpam, Origin: "train"}
	require.NoError(t, idx.IndexDocument(doc))
	require.NoError(t, idx.IndexDocument(doc))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearch(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	hits, err := idx.Search("free", 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
		assert.Greater(t, h.Score, 0.0)
		assert.Equal(t, "train", h.Origin)
	}
	assert.ElementsMatch(t, []string{"mail/1.txt", "mail/3.txt", "mail/4.txt"}, ids)
}

func TestSearchNoMatch(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	hits, err := idx.Search("xylophone", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchByLabel(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	spam, err := idx.SearchByLabel("free", LabelSpam, 10)
	require.NoError(t, err)
	require.Len(t, spam, 2)
	for _, h := range spam {
		assert.Equal(t, LabelSpam, h.Label)
	}

	ham, err := idx.SearchByLabel("free", LabelHam, 10)
	require.NoError(t, err)
	require.Len(t, ham, 1)
	assert.Equal(t, "mail/4.txt", ham[0].ID)
}

func TestUnlabeledDocuments(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	hits, err := idx.SearchByLabel("offer", LabelUnlabeled, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "inbox/5.txt", hits[0].ID)
	assert.Equal(t, "classify", hits[0].Origin)
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))

	hits, err := idx.Search("free", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	all, err := idx.All(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDelete(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.IndexBatch(corpus()))
	require.NoError(t, idx.Delete("mail/1.txt"))

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	hits, err := idx.SearchByLabel("free", LabelSpam, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "mail/3.txt", hits[0].ID)
}

func TestOpenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "corpus.bleve")

	idx, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, idx.Path())
	require.NoError(t, idx.IndexBatch(corpus()[:2]))
	require.NoError(t, idx.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	hits, err := reopened.Search("prize", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, LabelSpam, hits[0].Label)
}
