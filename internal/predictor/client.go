// Package predictor turns a feature record into a decision: it asks the
// scoring backend first and degrades to the local fallback rule.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	httpclient "loan-predictor/internal/common/http"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/metrics"
	"loan-predictor/internal/models"
)

// Failure reasons, also used as the metric label.
const (
	ReasonTransport  = "transport"
	ReasonTimeout    = "timeout"
	ReasonStatus     = "status"
	ReasonDecode     = "decode"
	ReasonIncomplete = "incomplete"
)

// RemoteFailure is every way the scoring backend can fail to produce a result.
// It is a value for the caller to degrade on, never something to show a user.
type RemoteFailure struct {
	Endpoint   string
	Reason     string
	StatusCode int
	Err        error
}

func (f *RemoteFailure) Error() string {
	msg := fmt.Sprintf("remote prediction failed (%s) at %s", f.Reason, f.Endpoint)
	if f.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", f.StatusCode)
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *RemoteFailure) Unwrap() error { return f.Err }

// Is lets errors.Is(err, apperrors.ErrRemoteFailure) match.
func (f *RemoteFailure) Is(target error) bool {
	var stdErr *apperrors.StandardError
	return errors.As(target, &stdErr) && stdErr.Code == apperrors.ErrCodeRemoteFailure
}

// Client calls POST <base>/predict. It never retries.
type Client struct {
	endpoint string
	http     *httpclient.Client
	logger   logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(baseURL, "/") + "/predict",
		http:     httpclient.NewClient(timeout),
		logger:   log.WithFields(map[string]interface{}{"component": "remote-predictor"}),
	}
}

// Endpoint is the full URL predictions are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// remoteResponse uses pointers so a missing key is distinguishable from false/0.
type remoteResponse struct {
	Approved    *bool    `json:"approved"`
	Probability *float64 `json:"probability"`
}

// Predict returns the backend's result or a *RemoteFailure.
func (c *Client) Predict(ctx context.Context, record *models.FeatureRecord) (*models.PredictionResult, error) {
	resp, err := c.http.PostJSON(ctx, c.endpoint, nil, record)
	if err != nil {
		reason := ReasonTransport
		if isTimeout(err) {
			reason = ReasonTimeout
		}
		return nil, c.fail(&RemoteFailure{Endpoint: c.endpoint, Reason: reason, Err: err})
	}

	if !resp.OK() {
		return nil, c.fail(&RemoteFailure{Endpoint: c.endpoint, Reason: ReasonStatus, StatusCode: resp.StatusCode})
	}

	var body remoteResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, c.fail(&RemoteFailure{Endpoint: c.endpoint, Reason: ReasonDecode, StatusCode: resp.StatusCode, Err: err})
	}

	if body.Approved == nil || body.Probability == nil {
		return nil, c.fail(&RemoteFailure{
			Endpoint:   c.endpoint,
			Reason:     ReasonIncomplete,
			StatusCode: resp.StatusCode,
			Err:        errors.New("response lacks approved or probability"),
		})
	}
	p := *body.Probability
	if math.IsNaN(p) || p < 0 || p > 100 {
		return nil, c.fail(&RemoteFailure{
			Endpoint:   c.endpoint,
			Reason:     ReasonIncomplete,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("probability %v outside [0,100]", p),
		})
	}

	return &models.PredictionResult{Approved: *body.Approved, Probability: p}, nil
}

func (c *Client) fail(f *RemoteFailure) *RemoteFailure {
	fields := map[string]interface{}{
		"endpoint": f.Endpoint,
		"reason":   f.Reason,
	}
	if f.StatusCode != 0 {
		fields["status"] = f.StatusCode
	}
	if f.Err != nil {
		fields["error"] = f.Err.Error()
	}
	c.logger.Warn("remote prediction failed", fields)
	metrics.RemotePredictionFailures.WithLabelValues(f.Reason).Inc()
	return f
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
