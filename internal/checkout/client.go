package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	myErr "lifeline-store/internal/types/errors"
)

const ordersPath = "/api/orders"

// HTTPOrderClient отправляет заказы в REST бэкенд
type HTTPOrderClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Logger     *zap.SugaredLogger
}

func NewHTTPOrderClient(baseURL, token string, timeout time.Duration, logger *zap.SugaredLogger) *HTTPOrderClient {
	return &HTTPOrderClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger,
	}
}

// PlaceOrder - POST /api/orders. Любой ответ кроме 2xx считается отказом
func (c *HTTPOrderClient) PlaceOrder(ctx context.Context, order OrderRequest) (*OrderResponse, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Errorw("order backend unreachable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", myErr.ErrCheckoutFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.Logger.Warnf("order backend answered %d", res.StatusCode)
		return nil, fmt.Errorf("%w: status %d", myErr.ErrCheckoutFailed, res.StatusCode)
	}

	var out OrderResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", myErr.ErrCheckoutFailed, err)
	}

	return &out, nil
}
