package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"prediction-terminal/internal/domain"
)

const maxErrorBody = 512

// getJSON performs a GET and decodes a JSON body into out. Failures are
// mapped onto the upstream error taxonomy so callers can fall back uniformly.
func getJSON(ctx context.Context, client *http.Client, source, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", source, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "prediction-terminal/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return classifyTransportError(source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s: %w: status %d: %s", source, domain.ErrUpstreamBadResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return classifyTransportError(source, err)
		}
		return fmt.Errorf("%s: %w: decode: %v", source, domain.ErrUpstreamBadResponse, err)
	}
	return nil
}

func classifyTransportError(source string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%s: %w: %v", source, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%s: %w: %v", source, domain.ErrUpstreamBadResponse, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
