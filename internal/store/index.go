package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	apperrors "matchability/internal/common/errors"
	"matchability/internal/models"
)

// PredictionIndex writes predictions to Elasticsearch for audit search.
// Documents are keyed by prediction id, so a retried write is idempotent.
type PredictionIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPredictionIndex(es *elasticsearch.Client, index string) *PredictionIndex {
	return &PredictionIndex{es: es, index: index}
}

func (x *PredictionIndex) Index(ctx context.Context, p *models.Prediction) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, x.es)
	if err != nil {
		return apperrors.NewElasticsearchConnectionFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apperrors.NewIndexWriteFailedError(x.index, fmt.Errorf("index response: %s", res.Status()))
	}
	return nil
}
