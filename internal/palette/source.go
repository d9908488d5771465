package palette

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultURL points at the published Sanzo Wada dataset.
const DefaultURL = "https://raw.githubusercontent.com/mattdesl/dictionary-of-colour-combinations/master/colors.json"

// DefaultTimeout bounds the one-time fetch.
const DefaultTimeout = 10 * time.Second

// Source tells LoadCatalog where the dataset lives. Path wins over URL when both are set.
type Source struct {
	URL     string
	Path    string
	Timeout time.Duration
}

// Parse decodes the JSON dataset.
func Parse(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("could not unmarshal palette dataset: %w", err)
	}
	return records, nil
}

// Fetch downloads the raw dataset from url.
func Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if url == "" {
		return nil, errors.New("palette dataset URL is empty")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req) //nolint:gosec // URL comes from configuration
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	return body, nil
}

// Read returns the raw dataset from the source.
func (s Source) Read(ctx context.Context) ([]byte, error) {
	if s.Path != "" {
		data, err := os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", s.Path, err)
		}
		return data, nil
	}
	return Fetch(ctx, s.URL, s.Timeout)
}

// LoadCatalog reads and indexes the dataset. It never fails: any error is logged and
// an empty catalog is returned, which sends every match down the fallback path.
func LoadCatalog(ctx context.Context, src Source) *Catalog {
	data, err := src.Read(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("palette catalog unavailable")
		return NewCatalog(nil)
	}

	records, err := Parse(data)
	if err != nil {
		log.Warn().Err(err).Msg("palette catalog unavailable")
		return NewCatalog(nil)
	}

	catalog := NewCatalog(records)
	log.Info().Int("colors", len(records)).Int("palettes", catalog.Len()).Msg("palette catalog loaded")
	return catalog
}
