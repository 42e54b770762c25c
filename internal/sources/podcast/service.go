package podcast

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

// Service parses podcast feeds and downloads episode audio.
type Service struct {
	parser *gofeed.Parser
	client *resty.Client
}

// NewService creates a podcast service. The download client gets a long
// timeout since episode files regularly run into the hundreds of megabytes.
func NewService() *Service {
	return &Service{
		parser: gofeed.NewParser(),
		client: resty.New().SetTimeout(5 * time.Minute),
	}
}

// WithHTTPClient overrides the download client for tests.
func (s *Service) WithHTTPClient(client *resty.Client) {
	if client != nil {
		s.client = client
	}
}
