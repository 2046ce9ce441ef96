package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"digestbot/internal/usecase/extract"
)

// ArticleFetcher fetches webpages and returns their article text. It implements
// extract.ContentFetcher and is safe for concurrent use.
type ArticleFetcher struct {
	client *http.Client
	config ContentFetchConfig
}

// NewArticleFetcher creates an ArticleFetcher. Each redirect target is validated
// like the requested URL and counted against MaxRedirects.
func NewArticleFetcher(config ContentFetchConfig) *ArticleFetcher {
	f := &ArticleFetcher{config: config}

	f.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", extract.ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.Context(), req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchContent downloads urlStr and returns its cleaned text.
//
// Errors wrap the extract sentinels: ErrInvalidURL, ErrPrivateIP,
// ErrTooManyRedirects, ErrTimeout, ErrUnexpectedStatus, ErrBodyTooLarge and
// ErrNoContent.
func (f *ArticleFetcher) FetchContent(ctx context.Context, urlStr string) (string, error) {
	start := time.Now()
	text, err := f.fetch(ctx, urlStr)
	recordFetch(err, time.Since(start))
	return text, err
}

func (f *ArticleFetcher) fetch(ctx context.Context, urlStr string) (string, error) {
	if err := validateURL(ctx, urlStr, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}

	body, finalURL, err := f.download(ctx, urlStr)
	if err != nil {
		return "", err
	}

	text, err := f.extractText(body, finalURL)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: %s", extract.ErrNoContent, urlStr)
	}
	return text, nil
}

func (f *ArticleFetcher) download(ctx context.Context, urlStr string) ([]byte, *url.URL, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create request: %v", extract.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, nil, fmt.Errorf("%w: request exceeded %v", extract.ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return nil, nil, urlErr.Err
		}
		return nil, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%w: %s", extract.ErrUnexpectedStatus, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.config.MaxBodySize {
		return nil, nil, fmt.Errorf("%w: response exceeds limit %d bytes",
			extract.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}
	return data, finalURL, nil
}

func (f *ArticleFetcher) extractText(body []byte, pageURL *url.URL) (string, error) {
	if f.config.Mode == ModeReadability {
		text, err := readableText(body, pageURL)
		if err == nil && text != "" {
			return text, nil
		}
		slog.Debug("readability found no article, cleaning the whole document",
			slog.String("url", pageURL.String()),
			slog.Any("error", err))
	}

	text, err := ExtractText(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	return text, nil
}

// readableText isolates the main article with readability, then applies the
// same cleaning as ModeDOM to the article HTML.
func readableText(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", nil
	}

	text, err := ExtractText(strings.NewReader(article.Content))
	if err != nil {
		return "", err
	}
	if title := strings.TrimSpace(article.Title); title != "" && !strings.HasPrefix(text, title) {
		text = title + "\n" + text
	}
	return text, nil
}
