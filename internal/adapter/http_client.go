package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/keyfold/syncengine/models"
)

type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpRemoteStore struct {
	client *resty.Client
}

func NewHTTPRemoteStore(cfg HTTPClientConfig) RemoteStore {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpRemoteStore{client: cli}
}

func (h *httpRemoteStore) Put(ctx context.Context, doc models.RemoteDocument) (int64, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		Put(docPath(doc.CollectionPath, doc.EntityID))
	if err != nil {
		return 0, fmt.Errorf("%w: put document: %v", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return 0, err
	}

	var result struct {
		Version int64 `json:"version"`
	}
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return 0, fmt.Errorf("decode put response: %w", err)
	}

	return result.Version, nil
}

func (h *httpRemoteStore) Delete(ctx context.Context, collectionPath, entityID string, version int64) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("version", strconv.FormatInt(version, 10)).
		Delete(docPath(collectionPath, entityID))
	if err != nil {
		return fmt.Errorf("%w: delete document: %v", ErrNetworkUnavailable, err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteStore) Get(ctx context.Context, collectionPath, entityID string) (models.RemoteDocument, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(docPath(collectionPath, entityID))
	if err != nil {
		return models.RemoteDocument{}, fmt.Errorf("%w: get document: %v", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteDocument{}, err
	}

	var doc models.RemoteDocument
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return models.RemoteDocument{}, fmt.Errorf("decode document response: %w", err)
	}

	return doc, nil
}

func (h *httpRemoteStore) PutBatch(ctx context.Context, body []byte, compressed bool) (models.BatchResponse, error) {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if compressed {
		req.SetHeader("Content-Encoding", "snappy")
	}

	resp, err := req.Post("/api/docs/batch")
	if err != nil {
		return models.BatchResponse{}, fmt.Errorf("%w: put batch: %v", ErrNetworkUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.BatchResponse{}, err
	}

	var result models.BatchResponse
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.BatchResponse{}, fmt.Errorf("decode batch response: %w", err)
	}

	return result, nil
}

func docPath(collectionPath, entityID string) string {
	return "/api/docs/" + strings.Trim(collectionPath, "/") + "/" + entityID
}
