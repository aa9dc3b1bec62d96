package socialapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/singleflight"
)

// Platform identifies a social network the client can read comments from
type Platform string

const (
	Instagram Platform = "instagram"
	Tiktok    Platform = "tiktok"
)

var (
	// ErrNotFound means the post exists but has no comments, or it does not exist
	ErrNotFound = errors.New("no comments found for post")
	// ErrInvalidURL means the post URL cannot be resolved to a media id
	ErrInvalidURL = errors.New("invalid post url")
	// ErrTimeout means the provider did not answer in time
	ErrTimeout = errors.New("comment provider timed out")
	// ErrUnavailable means the provider failed for any other reason
	ErrUnavailable = errors.New("comment provider unavailable")
)

var mentionRe = regexp.MustCompile(`(^|[^\w])@([\w_.]+)`)

// Comment is a comment as returned by the providers
type Comment struct {
	ID       string
	Text     string
	URL      string
	Username string
	UserID   string
	Userpic  string
}

// Config holds the provider endpoints and cache settings
type Config struct {
	InstagramBaseURL string
	TiktokBaseURL    string
	APIKey           string
	MockAPI          bool
	Timeout          time.Duration
	CacheSize        int
	CacheTTL         time.Duration
}

// Client fetches post comments. Fetched comment lists are cached per post and
// concurrent fetches of the same post share one request.
type Client struct {
	cfg    Config
	client *http.Client
	cache  *expirable.LRU[string, []Comment]
	group  singleflight.Group
}

// NewClient creates a new comment client
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 500
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  expirable.NewLRU[string, []Comment](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

// CountMentions counts the @user mentions in text
func CountMentions(text string) int {
	return len(mentionRe.FindAllStringIndex(text, -1))
}

// GetComments returns the comments of the post at postURL that mention at
// least minMentions users
func (c *Client) GetComments(ctx context.Context, platform Platform, postURL string, minMentions int) ([]Comment, error) {
	mediaID, err := MediaID(platform, postURL)
	if err != nil {
		return nil, err
	}

	key := string(platform) + ":" + mediaID
	all, ok := c.cache.Get(key)
	if !ok {
		v, err, _ := c.group.Do(key, func() (interface{}, error) {
			comments, err := c.fetch(ctx, platform, mediaID)
			if err != nil {
				return nil, err
			}
			c.cache.Add(key, comments)
			return comments, nil
		})
		if err != nil {
			return nil, err
		}
		all = v.([]Comment)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, postURL)
	}

	matching := make([]Comment, 0, len(all))
	for _, comment := range all {
		if CountMentions(comment.Text) < minMentions {
			continue
		}
		matching = append(matching, comment)
	}
	slog.Info("Fetched post comments", "platform", platform, "url", postURL, "total", len(all), "matching", len(matching))
	return matching, nil
}

func (c *Client) fetch(ctx context.Context, platform Platform, mediaID string) ([]Comment, error) {
	if c.cfg.MockAPI {
		return mockComments(platform, mediaID), nil
	}
	switch platform {
	case Instagram:
		return c.fetchInstagram(ctx, mediaID)
	case Tiktok:
		return c.fetchTiktok(ctx, mediaID)
	default:
		return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidURL, platform)
	}
}

type providerError struct {
	ExcType string `json:"exc_type"`
}

// get issues the request and decodes a successful body into out. It returns
// the provider exception type of a failed request when the body carries one.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		var perr providerError
		if json.Unmarshal(body, &perr) == nil && perr.ExcType != "" {
			slog.Warn("Comment provider request failed", "status", resp.StatusCode, "excType", perr.ExcType)
			return perr.ExcType, nil
		}
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrUnavailable, err)
	}
	return "", nil
}

type instagramResponse struct {
	Response struct {
		Comments []struct {
			PK   string `json:"pk"`
			Text string `json:"text"`
			User struct {
				Username      string `json:"username"`
				ProfilePicURL string `json:"profile_pic_url"`
			} `json:"user"`
		} `json:"comments"`
	} `json:"response"`
}

func (c *Client) fetchInstagram(ctx context.Context, mediaID string) ([]Comment, error) {
	var body instagramResponse
	params := url.Values{"id": {mediaID}, "access_key": {c.cfg.APIKey}}
	excType, err := c.get(ctx, c.cfg.InstagramBaseURL+"/v2/media/comments", params, &body)
	if err != nil {
		return nil, err
	}
	switch excType {
	case "":
	case "NotFoundError":
		return []Comment{}, nil
	case "MediaUnavailable":
		return nil, fmt.Errorf("%w: instagram media %s is unavailable", ErrInvalidURL, mediaID)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, excType)
	}

	comments := make([]Comment, 0, len(body.Response.Comments))
	for _, raw := range body.Response.Comments {
		comments = append(comments, Comment{
			ID:       raw.PK,
			Text:     raw.Text,
			Username: raw.User.Username,
			Userpic:  raw.User.ProfilePicURL,
		})
	}
	return comments, nil
}

type tiktokResponse struct {
	Comments []struct {
		CID       string `json:"cid"`
		Text      string `json:"text"`
		ShareInfo struct {
			URL string `json:"url"`
		} `json:"share_info"`
		User struct {
			Nickname    string `json:"nickname"`
			UniqueID    string `json:"unique_id"`
			AvatarThumb struct {
				URLList []string `json:"url_list"`
			} `json:"avatar_thumb"`
		} `json:"user"`
	} `json:"comments"`
}

const tiktokPageSize = 100

func (c *Client) fetchTiktok(ctx context.Context, mediaID string) ([]Comment, error) {
	var body tiktokResponse
	params := url.Values{
		"id":         {mediaID},
		"count":      {fmt.Sprint(tiktokPageSize)},
		"access_key": {c.cfg.APIKey},
	}
	excType, err := c.get(ctx, c.cfg.TiktokBaseURL+"/v1/media/comments/by/id", params, &body)
	if err != nil {
		return nil, err
	}
	switch excType {
	case "":
	case "CommentsNotFoundError":
		return []Comment{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, excType)
	}

	comments := make([]Comment, 0, len(body.Comments))
	for _, raw := range body.Comments {
		if len(raw.User.AvatarThumb.URLList) == 0 {
			slog.Error("Tiktok comment without avatar, skipping", "cid", raw.CID)
			continue
		}
		comments = append(comments, Comment{
			ID:       raw.CID,
			Text:     raw.Text,
			URL:      raw.ShareInfo.URL,
			Username: raw.User.Nickname,
			UserID:   raw.User.UniqueID,
			Userpic:  raw.User.AvatarThumb.URLList[0],
		})
	}
	return comments, nil
}

func mockComments(platform Platform, mediaID string) []Comment {
	comments := make([]Comment, 0, 12)
	for i := 1; i <= 12; i++ {
		user := fmt.Sprintf("%s_user_%02d", platform, (i-1)%10+1)
		comments = append(comments, Comment{
			ID:       fmt.Sprintf("%s-%d", mediaID, i),
			Text:     fmt.Sprintf("count me in @friend%d @friend%d", i, i+1),
			Username: user,
			UserID:   user,
			Userpic:  "https://example.com/avatars/" + user + ".png",
		})
	}
	return comments
}
