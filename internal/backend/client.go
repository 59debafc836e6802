// Package backend реализует HTTP-клиент к API платформы бронирования.
// Клиент покрывает только вызовы, нужные фронтенду: вход, обновление токена,
// статус аккаунта, отправку анкеты верификации и начало оплаты.
package backend

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
)

// ErrUnauthorized возвращается, если бэкенд не принял bearer-токен (401).
var ErrUnauthorized = errors.New("backend: unauthorized")

// DefaultDeniedMessage показывается, если бэкенд отказал без объяснения причины.
const DefaultDeniedMessage = "Acción no autorizada"

// DeniedError — отказ бэкенда в действии (403) с причиной для пользователя.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return "backend: denied: " + e.Message()
}

// Message возвращает причину отказа или общее сообщение.
func (e *DeniedError) Message() string {
	if strings.TrimSpace(e.Reason) == "" {
		return DefaultDeniedMessage
	}
	return e.Reason
}

// StatusError — неожиданный код ответа бэкенда.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: unexpected status %d", e.Code)
}

// Client — клиент API бэкенда.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиента для baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, bearer string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(body); err != nil {
			return nil, err
		}
		buf = &b
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует успешный ответ в out (если out не nil).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
		reason := eb.Error
		if reason == "" {
			reason = eb.Message
		}
		return &DeniedError{Reason: reason}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// InitiateCheckout начинает транзакцию оплаты на сумму amount.
func (c *Client) InitiateCheckout(ctx context.Context, bearer string, amount int64) (*CheckoutResponse, error) {
	const op = "backend.InitiateCheckout"
	req, err := c.newRequest(ctx, http.MethodPost, "/pagos/iniciar", bearer, CheckoutRequest{Amount: amount})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp CheckoutResponse
	if err = c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}

// AccountStatus возвращает статусы верификации и подписки пользователя токена.
func (c *Client) AccountStatus(ctx context.Context, bearer string) (*AccountStatus, error) {
	const op = "backend.AccountStatus"
	req, err := c.newRequest(ctx, http.MethodGet, "/usuarios/estado", bearer, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp AccountStatus
	if err = c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &resp, nil
}

// SubmitVerification отправляет анкету верификации личности.
func (c *Client) SubmitVerification(ctx context.Context, bearer string, in VerificationRequest) error {
	const op = "backend.SubmitVerification"
	req, err := c.newRequest(ctx, http.MethodPost, "/usuarios/verificacion", bearer, in)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = c.do(req, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Login выполняет вход по email и паролю.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	const op = "backend.Login"
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var resp TokenPair
	if err = c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.AccessToken == "" || resp.UserUID == "" {
		return nil, fmt.Errorf("%s: incomplete token response", op)
	}
	return &resp, nil
}

// Refresh обменивает refresh-токен на новую пару токенов.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	const op = "backend.Refresh"
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/refresh", "", refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	var resp TokenPair
	if err = c.do(req, &resp); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.AccessToken == "" {
		return "", "", fmt.Errorf("%s: empty access token", op)
	}
	return resp.AccessToken, resp.RefreshToken, nil
}
