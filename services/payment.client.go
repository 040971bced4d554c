package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// PaymentClient reads the payment record gating confirmation. Only the
// status flag matters here; all payment processing lives elsewhere.
type PaymentClient interface {
	PaymentSucceeded(ctx context.Context, bookingID string) (bool, error)
}

type HTTPPaymentClient struct {
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	logger  *log.Logger
}

func NewHTTPPaymentClient(baseURL string, logger *log.Logger) *HTTPPaymentClient {
	rest := resty.New().
		SetTimeout(5 * time.Second).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "PaymentHTTPSRequest",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("Circuit Breaker state changed from %s to %s\n", from, to)
		},
	})

	return &HTTPPaymentClient{
		rest:    rest,
		breaker: breaker,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (c *HTTPPaymentClient) PaymentSucceeded(ctx context.Context, bookingID string) (bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var payment struct {
			Status string `json:"status"`
		}
		resp, err := c.rest.R().
			SetContext(ctx).
			SetResult(&payment).
			Get(c.baseURL + "/api/payments/booking/" + bookingID)
		if err != nil {
			return nil, err
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			return payment.Status == "SUCCESS", nil
		case http.StatusNotFound:
			return false, nil
		default:
			return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode())
		}
	})
	if err != nil {
		c.logger.Println(err)
		return false, err
	}
	return result.(bool), nil
}
