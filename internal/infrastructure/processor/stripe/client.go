package stripe

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"payment-relay/internal/domain/payment_intent"
	"payment-relay/internal/infrastructure/config"
)

const (
	paymentIntentsPath = "/v1/payment_intents"
	paymentIntentPath  = "/v1/payment_intents/{id}"
)

// intentResource プロセッサのPaymentIntentレスポンス
type intentResource struct {
	ID           string `json:"id"`
	Object       string `json:"object"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
}

// errorEnvelope プロセッサのエラーレスポンス
type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

// Client Stripe互換REST APIのクライアント
type Client struct {
	http *resty.Client
}

var _ payment_intent.Processor = (*Client)(nil)

// NewClient 新しいClientを作成
func NewClient(cfg *config.ProcessorConfig) *Client {
	return NewClientWithHTTPClient(cfg, &http.Client{})
}

// NewClientWithHTTPClient HTTPクライアントを指定してClientを作成
func NewClientWithHTTPClient(cfg *config.ProcessorConfig, httpClient *http.Client) *Client {
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.APIVersion != "" {
		rc.SetHeader("Stripe-Version", cfg.APIVersion)
	}
	return &Client{http: rc}
}

// CreateIntent PaymentIntentを作成
func (c *Client) CreateIntent(ctx context.Context, params payment_intent.CreateIntentParams) (*payment_intent.PaymentIntent, error) {
	form := map[string]string{
		"amount":   fmt.Sprintf("%d", params.Amount),
		"currency": params.Currency,
	}
	for k, v := range params.Metadata {
		form[fmt.Sprintf("metadata[%s]", k)] = v
	}

	var result intentResource
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		SetError(&errorEnvelope{}).
		Post(paymentIntentsPath)
	if err != nil {
		return nil, payment_intent.NewUnavailableError(err)
	}
	if resp.IsError() {
		return nil, toProcessorError(resp)
	}

	return toPaymentIntent(&result)
}

// RetrieveIntent IDでPaymentIntentを取得
func (c *Client) RetrieveIntent(ctx context.Context, intentID string) (*payment_intent.PaymentIntent, error) {
	var result intentResource
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", intentID).
		SetResult(&result).
		SetError(&errorEnvelope{}).
		Get(paymentIntentPath)
	if err != nil {
		return nil, payment_intent.NewUnavailableError(err)
	}
	if resp.IsError() {
		return nil, toProcessorError(resp)
	}

	return toPaymentIntent(&result)
}

// toPaymentIntent レスポンスをドメインの参照に変換
func toPaymentIntent(r *intentResource) (*payment_intent.PaymentIntent, error) {
	if r.ID == "" {
		return nil, payment_intent.NewProcessorError(http.StatusBadGateway, "api_error", "", "processor returned an empty payment intent")
	}
	// 未知のステータスもそのまま保持し、成功判定はsucceededのみで行う
	return payment_intent.NewPaymentIntent(
		r.ID,
		r.ClientSecret,
		payment_intent.IntentStatus(r.Status),
		r.Amount,
		r.Currency,
	), nil
}

// toProcessorError エラーレスポンスをProcessorErrorに変換
func toProcessorError(resp *resty.Response) error {
	status := resp.StatusCode()
	env, ok := resp.Error().(*errorEnvelope)
	if !ok || env == nil || env.Error.Message == "" {
		return payment_intent.NewProcessorError(status, "", "", http.StatusText(status))
	}
	return payment_intent.NewProcessorError(status, env.Error.Type, env.Error.Code, env.Error.Message)
}
