package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultDatabaseURL is the published NeewerLite capability database.
const DefaultDatabaseURL = "https://raw.githubusercontent.com/keefo/NeewerLite/main/Database/lights.json"

// maxDatabaseSize caps the fetched document; the real database is a few
// tens of kilobytes.
const maxDatabaseSize = 4 << 20

// FetchFunc retrieves the raw database document. The implementation must
// honor ctx's deadline; the catalog never imposes one of its own.
type FetchFunc func(ctx context.Context) ([]byte, error)

// HTTPFetcher returns a FetchFunc performing a plain GET against url using
// client (http.DefaultClient when nil).
func HTTPFetcher(client *http.Client, url string) FetchFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build database request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch lights database: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch lights database: HTTP %d", resp.StatusCode)
		}
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDatabaseSize))
		if err != nil {
			return nil, fmt.Errorf("read lights database: %w", err)
		}
		return raw, nil
	}
}
