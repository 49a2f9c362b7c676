package acquisition_test

import (
	"context"
	"net/http"
	"time"

	"github.com/py-kalki/AI-WEBSITE-AUDITER/internal/webclient"
)

type staticPageFetcher struct {
	body      string
	requested []string
}

func (fetcher *staticPageFetcher) Fetch(_ context.Context, targetURL string, _ time.Duration) (webclient.Page, error) {
	fetcher.requested = append(fetcher.requested, targetURL)
	return webclient.Page{
		RequestedURL: targetURL,
		FinalURL:     targetURL,
		StatusCode:   http.StatusOK,
		Body:         []byte(fetcher.body),
	}, nil
}
