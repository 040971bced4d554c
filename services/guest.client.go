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

// GuestClient answers whether a guest record exists in the profile service.
type GuestClient interface {
	GuestExists(ctx context.Context, guestID string) (bool, error)
}

type HTTPGuestClient struct {
	rest    *resty.Client
	breaker *gobreaker.CircuitBreaker
	baseURL string
	logger  *log.Logger
}

func NewHTTPGuestClient(baseURL string, logger *log.Logger) *HTTPGuestClient {
	rest := resty.New().
		SetTimeout(5 * time.Second).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "GuestHTTPSRequest",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("Circuit Breaker state changed from %s to %s\n", from, to)
		},
	})

	return &HTTPGuestClient{
		rest:    rest,
		breaker: breaker,
		baseURL: baseURL,
		logger:  logger,
	}
}

func (c *HTTPGuestClient) GuestExists(ctx context.Context, guestID string) (bool, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.rest.R().SetContext(ctx).Get(c.baseURL + "/api/profile/getById/" + guestID)
		if err != nil {
			return nil, err
		}
		switch resp.StatusCode() {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		default:
			return nil, fmt.Errorf("profile service returned status %d", resp.StatusCode())
		}
	})
	if err != nil {
		c.logger.Println(err)
		return false, err
	}
	return result.(bool), nil
}
