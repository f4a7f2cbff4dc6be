package paymentControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/shopspring/decimal"
)

// RazorpayOrder is the gateway order returned by POST /orders.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// Gateway creates payment orders. RazorpayClient is the production one.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*RazorpayOrder, error)
}

type RazorpayClient struct {
	keyID     string
	secretKey string
	apiURL    string
	currency  string
	http      *http.Client
}

func NewRazorpayClient(cfg config.Razorpay) *RazorpayClient {
	return &RazorpayClient{
		keyID:     cfg.KeyID,
		secretKey: cfg.SecretKey,
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		currency:  cfg.Currency,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// ToSubunits converts a rupee amount to paise.
func ToSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder registers an order with Razorpay for amount (in rupees).
func (rc *RazorpayClient) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*RazorpayOrder, error) {
	if rc.keyID == "" || rc.secretKey == "" {
		return nil, fmt.Errorf("razorpay configuration missing")
	}

	payload := map[string]interface{}{
		"amount":   ToSubunits(amount),
		"currency": rc.currency,
		"receipt":  receipt,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.apiURL+"/orders", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(rc.keyID, rc.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := rc.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Razorpay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Razorpay response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var rzErr razorpayError
		if json.Unmarshal(body, &rzErr) == nil && rzErr.Error != nil {
			return nil, fmt.Errorf("razorpay error (%d): %s", resp.StatusCode, rzErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay API error (%d): %s", resp.StatusCode, string(body))
	}

	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("failed to parse Razorpay response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without id")
	}

	log.Printf("💳 Razorpay order %s created for %d %s", order.ID, order.Amount, order.Currency)
	return &order, nil
}
