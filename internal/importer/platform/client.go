package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"design-importer/internal/importer/models"
)

// ============================================================
// Platform API Contracts
// ============================================================

// Превышение rate limit платформы: вызывающий ретраит с backoff.
var ErrRateLimited = errors.New("platform rate limited")

// Страница не в редактируемом состоянии: корректирующий проход
// завершается мягко, без провала импорта.
var ErrSessionUnavailable = errors.New("editable session unavailable")

// API — контракты целевой платформы, потребляемые пайплайном.
type API interface {
	FontCatalog(ctx context.Context) ([]models.FontCatalogEntry, error)
	UploadAsset(ctx context.Context, data []byte, mime string) (models.AssetReference, error)
	CreatePage(ctx context.Context, page models.PageRequest) error
	OpenSession(ctx context.Context, pageName string) (Session, error)
}

// Session — редактируемая сессия поверх созданной страницы.
// Мутации накапливаются и применяются атомарно на Commit.
type Session interface {
	Elements() []models.SessionElement
	SetTransparency(index int, value float64) error
	Commit(ctx context.Context) error
}

// ============================================================
// HTTP Client
// ============================================================

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
	}
}

func (c *Client) FontCatalog(ctx context.Context) ([]models.FontCatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/fonts", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query font catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query font catalog: status %d", resp.StatusCode)
	}

	var payload struct {
		Fonts []models.FontCatalogEntry `json:"fonts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode font catalog: %w", err)
	}
	return payload.Fonts, nil
}

func (c *Client) UploadAsset(ctx context.Context, data []byte, mime string) (models.AssetReference, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/assets", bytes.NewReader(data))
	if err != nil {
		return models.AssetReference{}, err
	}
	req.Header.Set("Content-Type", mime)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.AssetReference{}, fmt.Errorf("upload asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return models.AssetReference{}, fmt.Errorf("upload asset: status %d", resp.StatusCode)
	}

	var ref models.AssetReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return models.AssetReference{}, fmt.Errorf("decode asset reference: %w", err)
	}
	return ref, nil
}

func (c *Client) CreatePage(ctx context.Context, page models.PageRequest) error {
	body, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusOK:
		return nil
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create page: status %d: %s", resp.StatusCode, msg)
	}
}

func (c *Client) OpenSession(ctx context.Context, pageName string) (Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pages/"+pageName+"/session", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusLocked {
		return nil, ErrSessionUnavailable
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open session: status %d", resp.StatusCode)
	}

	var payload struct {
		ID       string                  `json:"id"`
		Editable bool                    `json:"editable"`
		Elements []models.SessionElement `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !payload.Editable {
		return nil, ErrSessionUnavailable
	}

	return &httpSession{client: c, id: payload.ID, elements: payload.Elements}, nil
}

// ============================================================
// HTTP Session
// ============================================================

type transparencyChange struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

type httpSession struct {
	client   *Client
	id       string
	elements []models.SessionElement
	changes  []transparencyChange
}

func (s *httpSession) Elements() []models.SessionElement {
	return s.elements
}

func (s *httpSession) SetTransparency(index int, value float64) error {
	if index < 0 || index >= len(s.elements) {
		return fmt.Errorf("element index %d out of range", index)
	}
	s.changes = append(s.changes, transparencyChange{Index: index, Value: value})
	return nil
}

// Commit применяет все накопленные изменения одним вызовом.
func (s *httpSession) Commit(ctx context.Context) error {
	body, err := json.Marshal(map[string]any{"changes": s.changes})
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.client.baseURL+"/v1/sessions/"+s.id, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("commit session: status %d", resp.StatusCode)
	}
	return nil
}
