package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const sendPath = "/api/v1.0/email/send"

type RelayConfig struct {
	BaseURL    string
	ServiceID  string
	PublicKey  string
	PrivateKey string
	Templates  map[Kind]string
	Timeout    time.Duration
}

// RelayClient sends mail through an EmailJS compatible REST relay.
type RelayClient struct {
	url        string
	serviceID  string
	publicKey  string
	privateKey string
	templates  map[Kind]string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[struct{}]
	logger     *zap.Logger
}

func NewRelayClient(cfg RelayConfig, logger *zap.Logger) *RelayClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "email-relay",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &RelayClient{
		url:        strings.TrimSuffix(cfg.BaseURL, "/") + sendPath,
		serviceID:  cfg.ServiceID,
		publicKey:  cfg.PublicKey,
		privateKey: cfg.PrivateKey,
		templates:  cfg.Templates,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

type sendRequest struct {
	ServiceID      string `json:"service_id"`
	TemplateID     string `json:"template_id"`
	UserID         string `json:"user_id"`
	AccessToken    string `json:"accessToken,omitempty"`
	TemplateParams Params `json:"template_params"`
}

func (c *RelayClient) Send(ctx context.Context, kind Kind, params Params) error {
	templateID, ok := c.templates[kind]
	if !ok || templateID == "" {
		return &Error{Kind: kind, Err: ErrUnknownKind}
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, templateID, params)
	})
	if err != nil {
		c.logger.Error("notification failed", zap.String("kind", string(kind)), zap.Error(err))
		return &Error{Kind: kind, Err: err}
	}

	c.logger.Debug("notification sent", zap.String("kind", string(kind)), zap.String("template", templateID))
	return nil
}

func (c *RelayClient) post(ctx context.Context, templateID string, params Params) error {
	body, err := json.Marshal(sendRequest{
		ServiceID:      c.serviceID,
		TemplateID:     templateID,
		UserID:         c.publicKey,
		AccessToken:    c.privateKey,
		TemplateParams: params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("relay error: status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
