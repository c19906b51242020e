package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestStore talks to the catalog service over HTTP. Collection loads retry
// with backoff; a 404 on a single document maps to ErrNotFound without
// retrying.
type RestStore struct {
	client *resty.Client
}

// NewRestStore builds a RestStore against baseURL. retryCount bounds the
// automatic retries on transport errors and 5xx responses.
func NewRestStore(baseURL string, retryCount int) *RestStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second).
		SetRetryCount(retryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &RestStore{client: client}
}

func (s *RestStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get(fmt.Sprintf("/collections/%s/documents/%s", collection, id))
	if err != nil {
		return nil, fmt.Errorf("catalog get %s/%s: %w", collection, id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog get %s/%s: status %d", collection, id, resp.StatusCode())
	}
	return doc, nil
}

func (s *RestStore) GetAllDocuments(ctx context.Context, collection string) (map[string]Document, error) {
	var docs map[string]Document
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&docs).
		Get(fmt.Sprintf("/collections/%s/documents", collection))
	if err != nil {
		return nil, fmt.Errorf("catalog list %s: %w", collection, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog list %s: status %d", collection, resp.StatusCode())
	}
	return docs, nil
}

func (s *RestStore) QueryByFieldRange(ctx context.Context, collection, field string, lower, upper any) (map[string]Document, error) {
	var docs map[string]Document
	resp, err := s.client.R().
		SetContext(ctx).
		SetResult(&docs).
		SetQueryParams(map[string]string{
			"field": field,
			"lower": fmt.Sprintf("%v", lower),
			"upper": fmt.Sprintf("%v", upper),
		}).
		Get(fmt.Sprintf("/collections/%s/query", collection))
	if err != nil {
		return nil, fmt.Errorf("catalog query %s.%s: %w", collection, field, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog query %s.%s: status %d", collection, field, resp.StatusCode())
	}
	return docs, nil
}
