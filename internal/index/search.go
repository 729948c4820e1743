package index

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Hit is a single search result.
type Hit struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Origin string  `json:"origin"`
	Score  float64 `json:"score"`
}

// Search runs a full-text match query over document text.
func (i *Index) Search(q string, limit int) ([]Hit, error) {
	return i.search(textQuery(q), limit)
}

// SearchByLabel is Search restricted to documents with the given label.
func (i *Index) SearchByLabel(q, label string, limit int) ([]Hit, error) {
	labelQuery := bleve.NewTermQuery(label)
	labelQuery.SetField("label")

	return i.search(bleve.NewConjunctionQuery(textQuery(q), labelQuery), limit)
}

// All lists indexed documents (up to limit).
func (i *Index) All(limit int) ([]Hit, error) {
	return i.search(bleve.NewMatchAllQuery(), limit)
}

func textQuery(q string) query.Query {
	mq := bleve.NewMatchQuery(q)
	mq.SetField("text")
	return mq
}

func (i *Index) search(q query.Query, limit int) ([]Hit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"label", "origin"}

	results, err := i.bleveIndex.Search(req)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	return convertResults(results), nil
}

// convertResults converts bleve search results to Hits.
func convertResults(results *bleve.SearchResult) []Hit {
	hits := make([]Hit, 0, len(results.Hits))

	for _, h := range results.Hits {
		label, _ := h.Fields["label"].(string)
		origin, _ := h.Fields["origin"].(string)

		hits = append(hits, Hit{
			ID:     h.ID,
			Label:  label,
			Origin: origin,
			Score:  h.Score,
		})
	}

	return hits
}
