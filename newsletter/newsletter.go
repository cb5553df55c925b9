// Package newsletter performs the best-effort welcome subscription for
// newly created owner accounts. The call is detached from the request
// path: it must never block or fail a sign-in, so failures are logged
// and swallowed.
package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const source = "trivet"

// Subscriber posts new owner addresses to an external marketing endpoint.
type Subscriber struct {
	endpoint   string
	httpClient *http.Client
}

func NewSubscriber(endpoint string) *Subscriber {
	return &Subscriber{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Subscribe fires the subscription in a background goroutine and returns
// immediately.
func (s *Subscriber) Subscribe(email, name string) {
	if s == nil || s.endpoint == "" {
		return
	}
	go s.subscribe(email, name)
}

func (s *Subscriber) subscribe(email, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	body, err := json.Marshal(map[string]string{
		"email":  email,
		"name":   name,
		"source": source,
	})
	if err != nil {
		log.Error().Err(err).Msg("newsletter subscribe encode failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("newsletter subscribe request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("newsletter subscribe failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Msg("newsletter subscribe rejected")
	}
}
