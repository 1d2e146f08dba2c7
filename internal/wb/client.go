// Package wb is the client of the WB feedbacks API. It owns the retry
// policy and the terminal-failure classification: nothing it returns is
// fatal, a failed call means "no data this cycle" and the next scheduled
// cycle retries naturally.
package wb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/utils"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseUrl = "https://feedbacks-api.wb.ru/api/v1"

	requestTimeout = time.Second * 20
	retryDelay     = time.Second * 10
	maxRetries     = 3

	// one page is enough: the vendor caps open feedbacks well below this
	pageSize = "5000"
)

// staleIdPattern extracts the review id a 422 response complains about.
var staleIdPattern = regexp.MustCompile(`id=(\d+)`)

// StalePruner removes a review id the vendor no longer recognizes from
// the persisted open set, so one stale id cannot abort every future poll.
type StalePruner interface {
	RemoveOpenReview(ctx context.Context, shop model.Shop, id string) error
}

type Client struct {
	baseUrl    string
	httpClient *http.Client
	retryDelay time.Duration
	sleep      func(time.Duration)
	pruner     StalePruner
}

func NewClient(baseUrl string, pruner StalePruner) *Client {
	return &Client{
		baseUrl:    baseUrl,
		httpClient: &http.Client{Timeout: requestTimeout},
		retryDelay: retryDelay,
		sleep:      time.Sleep,
		pruner:     pruner,
	}
}

// WithRetryDelay overrides the delay between attempts. Tests use this.
func (c *Client) WithRetryDelay(d time.Duration) *Client {
	c.retryDelay = d
	return c
}

// Unanswered fetches the entire current unanswered set of the shop.
func (c *Client) Unanswered(ctx context.Context, shop model.Shop, token string) ([]model.Feedback, error) {
	params := url.Values{}
	params.Set("isAnswered", "false")
	params.Set("take", pageSize)
	params.Set("skip", "0")
	return c.feedbacks(ctx, shop, token, params)
}

// UnansweredSince fetches unanswered feedbacks created at or after the
// given unix timestamp.
func (c *Client) UnansweredSince(ctx context.Context, shop model.Shop, token string, dateFrom int64) ([]model.Feedback, error) {
	params := url.Values{}
	params.Set("isAnswered", "false")
	params.Set("take", pageSize)
	params.Set("skip", "0")
	params.Set("dateFrom", fmt.Sprintf("%d", dateFrom))
	return c.feedbacks(ctx, shop, token, params)
}

func (c *Client) feedbacks(ctx context.Context, shop model.Shop, token string, params url.Values) ([]model.Feedback, error) {
	body, err := c.get(ctx, shop, token, "/feedbacks", params)
	if err != nil {
		return nil, err
	}

	response := feedbacksResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode feedbacks: %w, shop: %s", err, shop)
	}
	return response.Data.Feedbacks, nil
}

// FeedbackById fetches a single feedback. A nil feedback with nil error
// means the vendor answered but had nothing under "data".
func (c *Client) FeedbackById(ctx context.Context, shop model.Shop, token string, id string) (*model.Feedback, error) {
	params := url.Values{}
	params.Set("id", id)

	body, err := c.get(ctx, shop, token, "/feedback", params)
	if err != nil {
		return nil, err
	}

	response := feedbackResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode feedback: %w, id: %s", err, id)
	}
	return response.Data, nil
}

// get performs the call with the fixed retry policy. On exhaustion it
// inspects the last response: a 422 naming a review id prunes that id
// from the shop's open set before reporting failure.
func (c *Client) get(ctx context.Context, shop model.Shop, token string, path string, params url.Values) ([]byte, error) {

	var lastStatus int
	var lastBody []byte

	attempt := func() error {
		// only the final attempt's response may drive the 422 handling
		lastStatus = 0
		lastBody = nil

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastStatus = resp.StatusCode
			lastBody = body
			return fmt.Errorf("%s: status %d, shop: %s", path, resp.StatusCode, shop)
		}

		lastStatus = resp.StatusCode
		lastBody = body
		return nil
	}

	handler := utils.NewRetryHandler(c.retryDelay, maxRetries).WithSleep(c.sleep)
	if err := handler.Do(attempt); err != nil {
		if lastStatus == http.StatusUnprocessableEntity {
			c.pruneStaleId(ctx, shop, lastBody)
		}
		return nil, err
	}

	return lastBody, nil
}

func (c *Client) pruneStaleId(ctx context.Context, shop model.Shop, body []byte) {
	id := extractStaleId(body)
	if id == "" {
		return
	}

	if err := c.pruner.RemoveOpenReview(ctx, shop, id); err != nil {
		log.Error().Err(err).Msgf("failed to prune stale review %s, shop: %s", id, shop)
		return
	}
	log.Warn().Msgf("review %s was removed from the open set because the vendor no longer knows it", id)
}

// extractStaleId reads the rejected id out of a 422 body: first from the
// structured error envelope, then from the raw text as a compatibility
// fallback.
func extractStaleId(body []byte) string {
	envelope := errorResponse{}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if m := staleIdPattern.FindStringSubmatch(envelope.ErrorText); m != nil {
			return m[1]
		}
	}

	if m := staleIdPattern.FindStringSubmatch(string(body)); m != nil {
		return m[1]
	}
	return ""
}
