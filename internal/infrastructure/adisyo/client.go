package adisyo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DRSN-tech/qr-menu-backend/internal/cfg"
	"github.com/DRSN-tech/qr-menu-backend/internal/domain"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/jitter"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const (
	// StatusRateLimited — нестандартный HTTP-статус, которым Adisyo сообщает о превышении лимита.
	StatusRateLimited = 601
	// RateLimitCooldown — сколько ждать после StatusRateLimited.
	RateLimitCooldown = 180 * time.Second

	headerAPIKey      = "x-api-key"
	headerAPISecret   = "x-api-secret"
	headerAPIConsumer = "x-api-consumer"

	retryBackoff = 500 * time.Millisecond
	retryMaxWait = 5 * time.Second
	// maxErrorBody — сколько байт тела ответа попадает в текст ошибки
	maxErrorBody = 512
)

// Client загружает каталог продуктов из внешнего API Adisyo.
type Client struct {
	httpClient *http.Client
	validate   *validator.Validate
	logger     logger.Logger
	cfg        *cfg.AdisyoCfg
}

func NewClient(cfg *cfg.AdisyoCfg, logger logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		validate:   validator.New(),
		logger:     logger,
		cfg:        cfg,
	}
}

// retryableError — временная ошибка транспорта или 5xx, запрос можно повторить.
type retryableError struct {
	err error
}

func (r *retryableError) Error() string { return r.err.Error() }
func (r *retryableError) Unwrap() error { return r.err }

// FetchCatalog загружает и валидирует каталог. Ограничение частоты (601) возвращается как
// *e.RateLimitError с RateLimitCooldown и не повторяется.
func (c *Client) FetchCatalog(ctx context.Context) ([]domain.CatalogCategory, error) {
	const op = "adisyo.Client.FetchCatalog"

	attempts := max(c.cfg.MaxRetries, 1)

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var catalog []domain.CatalogCategory
		catalog, err = c.fetch(ctx)
		if err == nil {
			return catalog, nil
		}

		var re *retryableError
		if !errors.As(err, &re) || attempt == attempts-1 {
			break
		}

		c.logger.Warnf("Adisyo request failed (attempt %d/%d), retrying: %v", attempt+1, attempts, err)
		if sleepErr := jitter.Sleep(ctx, jitter.ExponentialBackoff(retryBackoff, retryMaxWait, attempt, jitter.DefaultJitter)); sleepErr != nil {
			return nil, e.Wrap(op, sleepErr)
		}
	}

	return nil, e.Wrap(op, err)
}

func (c *Client) fetch(ctx context.Context) ([]domain.CatalogCategory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerAPIKey, c.cfg.APIKey)
	req.Header.Set(headerAPISecret, c.cfg.APISecret)
	req.Header.Set(headerAPIConsumer, c.cfg.ConsumerID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{err: fmt.Errorf("%w: %w", e.ErrCatalogFetch, err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == StatusRateLimited:
		return nil, e.NewRateLimitError(RateLimitCooldown)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: http %d", e.ErrCatalogAuth, resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &retryableError{err: fmt.Errorf("%w: http %d: %s", e.ErrCatalogFetch, resp.StatusCode, readSnippet(resp.Body))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: http %d: %s", e.ErrCatalogFetch, resp.StatusCode, readSnippet(resp.Body))
	}

	var body productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", e.ErrCatalogInvalid, err)
	}

	if body.Status != statusOK {
		return nil, fmt.Errorf("%w: status %d: %s", e.ErrCatalogStatus, body.Status, body.Message)
	}

	if err := c.validate.Struct(&body); err != nil {
		return nil, fmt.Errorf("%w: %s", e.ErrCatalogInvalid, describeValidation(err))
	}

	return toDomainCatalog(body.Data), nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return string(b)
}

// describeValidation возвращает путь до первого невалидного поля, например
// "productsResponse.Data[0].Products[2].TaxRate: required".
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	msg := fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
	if len(verrs) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(verrs)-1)
	}

	return msg
}
