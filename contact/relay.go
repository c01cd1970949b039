package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const maxErrorBody = 256

// Sender delivers a submission to the form endpoint.
type Sender interface {
	Send(ctx context.Context, s Submission) error
}

// Relay posts submissions as JSON to a third-party form endpoint. It never
// retries on its own: one Send is one outbound request.
type Relay struct {
	client   *resty.Client
	endpoint string
}

// NewRelay returns a Relay posting to endpoint. Each request is bounded by timeout.
func NewRelay(endpoint string, timeout time.Duration) *Relay {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	return &Relay{client: client, endpoint: endpoint}
}

// NewRelayWithClient returns a Relay using an existing resty client.
func NewRelayWithClient(endpoint string, client *resty.Client) *Relay {
	return &Relay{client: client, endpoint: endpoint}
}

// Endpoint returns the URL submissions are posted to.
func (r *Relay) Endpoint() string {
	return r.endpoint
}

// Send posts s to the endpoint. Transport failures and non-2xx answers are errors.
func (r *Relay) Send(ctx context.Context, s Submission) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(s).
		Post(r.endpoint)
	if err != nil {
		return fmt.Errorf("post to form endpoint: %w", err)
	}
	if !resp.IsSuccess() {
		body := strings.TrimSpace(resp.String())
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Code: resp.StatusCode(), Body: body}
	}
	return nil
}
