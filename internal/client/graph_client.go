package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"comment-sync-api/internal/metrics"
)

const graphAPIVersion = "v18.0"

// graphTimeFormat is the created_time layout used by the Graph API
const graphTimeFormat = "2006-01-02T15:04:05-0700"

// RemoteAuthor is the author block of a Graph API comment
type RemoteAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
}

// RemoteComment is one comment as returned by the Graph API comment edge
type RemoteComment struct {
	ID          string       `json:"id"`
	Message     string       `json:"message"`
	From        RemoteAuthor `json:"from"`
	CreatedTime string       `json:"created_time"`
}

// CreatedAt parses the Graph created_time; zero time when absent or malformed
func (rc RemoteComment) CreatedAt() time.Time {
	t, err := time.Parse(graphTimeFormat, rc.CreatedTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// commentListPage is one page of the comment edge response
type commentListPage struct {
	Data   []RemoteComment `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next string `json:"next"`
	} `json:"paging"`
}

// replyResponse is the body returned after posting a reply
type replyResponse struct {
	ID string `json:"id"`
}

// graphErrorBody is the Graph API error envelope
type graphErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// GraphClient defines the interface for Facebook Graph API communication
type GraphClient interface {
	// ReplyToComment posts a reply under the given comment and returns
	// the created reply id
	ReplyToComment(ctx context.Context, commentID, message string) (string, error)
	// ListComments pages through the full comment list of a post
	ListComments(ctx context.Context, postID string) ([]RemoteComment, error)
}

// graphClient implements GraphClient against the Graph API
type graphClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewGraphClient creates a new Graph API client
func NewGraphClient(baseURL, accessToken string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) GraphClient {
	return &graphClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

// ReplyToComment posts a reply through the comment's /comments edge
func (c *graphClient) ReplyToComment(ctx context.Context, commentID, message string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/comments", c.baseURL, graphAPIVersion, commentID)

	form := url.Values{}
	form.Set("message", message)
	form.Set("access_token", c.accessToken)

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, http.MethodPost, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to post comment reply",
			zap.String("comment_id", commentID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to post reply: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var graphErr graphErrorBody
		if json.Unmarshal(body, &graphErr) == nil && graphErr.Error.Message != "" {
			c.logger.Warn("Graph API rejected comment reply",
				zap.String("comment_id", commentID),
				zap.Int("status_code", resp.StatusCode),
				zap.String("graph_error", graphErr.Error.Message),
				zap.Int("graph_code", graphErr.Error.Code),
			)
			return "", fmt.Errorf("graph API error (%d): %s", graphErr.Error.Code, graphErr.Error.Message)
		}
		return "", fmt.Errorf("graph API returned status %d", resp.StatusCode)
	}

	var reply replyResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", fmt.Errorf("failed to decode reply response: %w", err)
	}

	c.logger.Info("Comment reply posted",
		zap.String("comment_id", commentID),
		zap.String("reply_id", reply.ID),
		zap.Duration("duration", duration),
	)
	return reply.ID, nil
}

// ListComments fetches every page of a post's comment edge
func (c *graphClient) ListComments(ctx context.Context, postID string) ([]RemoteComment, error) {
	var all []RemoteComment
	after := ""

	for {
		page, err := c.fetchCommentPage(ctx, postID, after)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Data...)

		if page.Paging.Next == "" || page.Paging.Cursors.After == "" {
			break
		}
		after = page.Paging.Cursors.After
	}

	return all, nil
}

// fetchCommentPage requests a single page of the comment edge
func (c *graphClient) fetchCommentPage(ctx context.Context, postID, after string) (*commentListPage, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/comments", c.baseURL, graphAPIVersion, postID)

	params := url.Values{}
	params.Set("fields", "id,message,from,created_time")
	params.Set("limit", "100")
	params.Set("access_token", c.accessToken)
	if after != "" {
		params.Set("after", after)
	}

	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(endpoint, http.MethodGet, statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Failed to list post comments",
			zap.String("post_id", postID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var graphErr graphErrorBody
		if json.Unmarshal(body, &graphErr) == nil && graphErr.Error.Message != "" {
			return nil, fmt.Errorf("graph API error (%d): %s", graphErr.Error.Code, graphErr.Error.Message)
		}
		return nil, fmt.Errorf("graph API returned status %d", resp.StatusCode)
	}

	var page commentListPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode comment list: %w", err)
	}

	return &page, nil
}
