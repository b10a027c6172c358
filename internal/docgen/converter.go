package docgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Converter turns a document from one office format into another. The
// pipeline treats it as opaque: errors come back verbatim and nothing
// is retried here.
type Converter interface {
	Convert(ctx context.Context, data []byte, fromExt, toExt string) ([]byte, error)
}

// HTTPConverter talks to a LibreOffice-style conversion service over
// multipart HTTP.
type HTTPConverter struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPConverter(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPConverter {
	return &HTTPConverter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPConverter) Convert(ctx context.Context, data []byte, fromExt, toExt string) ([]byte, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", "document."+fromExt)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return nil, &ConversionError{Err: err}
	}
	if err := form.Close(); err != nil {
		return nil, &ConversionError{Err: err}
	}

	url := fmt.Sprintf("%s/convert?to=%s", c.baseURL, toExt)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &ConversionError{
			Err: fmt.Errorf("converter returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg)),
		}
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConversionError{Err: err}
	}
	c.logger.Debug("document converted",
		zap.String("from", fromExt),
		zap.String("to", toExt),
		zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}
