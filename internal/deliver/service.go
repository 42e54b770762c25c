// Package deliver sends finished articles to external destinations.
// The only destination today is email via the Resend API.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"distill/internal/config"
	"distill/internal/content"
	"distill/internal/output"
	"distill/internal/retry"
	"distill/internal/services"
)

const (
	userAgent      = "distill/0.1.0"
	defaultBaseURL = "https://api.resend.com"
	requestTimeout = 30 * time.Second
)

// Service delivers a finished article to its configured recipient.
type Service interface {
	Send(ctx context.Context, article content.Article) error
}

// NewService builds a Resend-backed delivery service from configuration.
// Delivery is only attempted when the user asks for it, so an incomplete
// email section yields a service whose Send reports the missing setting
// instead of silently dropping the article.
func NewService(cfg *config.Config) Service {
	apiKey := strings.TrimSpace(cfg.Email.APIKey)
	to := strings.TrimSpace(cfg.Email.To)
	switch {
	case apiKey == "":
		return unconfiguredService{detail: "email.api_key is empty; set it or export RESEND_API_KEY"}
	case to == "":
		return unconfiguredService{detail: "email.to is empty; set the recipient address"}
	}

	return &resendService{
		apiKey:  apiKey,
		from:    strings.TrimSpace(cfg.Email.From),
		to:      to,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: requestTimeout},
		policy:  retry.Default(),
	}
}

type emailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendService struct {
	apiKey  string
	from    string
	to      string
	baseURL string
	client  *http.Client
	policy  retry.Policy
}

// WithHTTPClient overrides the HTTP client (for testing).
func (s *resendService) WithHTTPClient(client *http.Client) {
	if client != nil {
		s.client = client
	}
}

// WithBaseURL overrides the Resend endpoint (for testing).
func (s *resendService) WithBaseURL(baseURL string) {
	if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
		s.baseURL = strings.TrimSuffix(trimmed, "/")
	}
}

// WithRetryPolicy overrides the retry policy (for testing).
func (s *resendService) WithRetryPolicy(policy retry.Policy) {
	s.policy = policy
}

func (s *resendService) Send(ctx context.Context, article content.Article) error {
	body, err := output.HTML(article)
	if err != nil {
		return services.Wrap(services.ErrParse, "deliver", "send", "render article html", err)
	}

	payload, err := json.Marshal(emailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: article.Title,
		HTML:    body,
	})
	if err != nil {
		return services.Wrap(services.ErrParse, "deliver", "send", "encode email payload", err)
	}

	// Resend only gets retried on server errors; client errors and network
	// failures surface immediately.
	if err := s.policy.Do(ctx, retryableStatus, func(ctx context.Context) error {
		return s.post(ctx, payload)
	}); err != nil {
		return s.classify(err)
	}
	return nil
}

func (s *resendService) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build resend request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send resend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *resendService) classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var status *statusError
	if errors.As(err, &status) {
		switch {
		case status.StatusCode == http.StatusUnauthorized || status.StatusCode == http.StatusForbidden:
			return services.Wrap(services.ErrConfiguration, "deliver", "send", "resend rejected the API key", err)
		case status.StatusCode >= http.StatusInternalServerError:
			return services.Wrap(services.ErrTransient, "deliver", "send", "resend unavailable", err)
		default:
			return services.Wrap(services.ErrValidation, "deliver", "send", "resend rejected the message", err)
		}
	}
	return services.Wrap(services.ErrTransient, "deliver", "send", "resend request failed", err)
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("resend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("resend returned %d: %s", e.StatusCode, e.Body)
}

func retryableStatus(err error) bool {
	var status *statusError
	return errors.As(err, &status) && status.StatusCode >= http.StatusInternalServerError
}

type unconfiguredService struct {
	detail string
}

func (s unconfiguredService) Send(context.Context, content.Article) error {
	return services.Wrap(services.ErrConfiguration, "deliver", "send", s.detail, nil)
}
