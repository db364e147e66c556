package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/angeloszaimis/channel-proxy/internal/metrics"
)

const (
	opSearch    = "search.list"
	opPlaylists = "playlists.list"

	// DefaultPageSize is used when Options.PageSize is unset.
	DefaultPageSize = 5
)

// Options configures a Client.
type Options struct {
	APIKey    string
	ChannelID string
	PageSize  int64
	// Endpoint overrides the API base URL; empty keeps the library default.
	Endpoint string
}

// Client answers the proxy's lookups for a single channel.
type Client struct {
	service   *ytapi.Service
	channelID string
	pageSize  int64
	logger    *slog.Logger
	collector *metrics.Collector
}

// NewClient builds a Client authenticated with an API key. collector may be nil.
func NewClient(ctx context.Context, opts Options, logger *slog.Logger, collector *metrics.Collector) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := ytapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		service:   service,
		channelID: opts.ChannelID,
		pageSize:  pageSize,
		logger:    logger,
		collector: collector,
	}, nil
}

// ChannelID returns the channel every lookup is scoped to.
func (c *Client) ChannelID() string {
	return c.channelID
}

// LatestVideo returns the channel's most recent upload. The newest search
// result may be a playlist or the channel itself; that counts as no video.
func (c *Client) LatestVideo(ctx context.Context) (Video, error) {
	call := c.service.Search.List([]string{"snippet"}).
		ChannelId(c.channelID).
		Order("date").
		MaxResults(1).
		Context(ctx)

	start := time.Now()
	resp, err := call.Do()
	c.observe(opSearch, start, err)
	if err != nil {
		return Video{}, &UpstreamError{Op: opSearch, Err: err}
	}

	if len(resp.Items) == 0 {
		return Video{}, ErrNotFound
	}

	return videoFromResult(resp.Items[0])
}

// SearchVideo returns the first video of the channel matching title.
func (c *Client) SearchVideo(ctx context.Context, title string) (Video, error) {
	call := c.service.Search.List([]string{"snippet"}).
		ChannelId(c.channelID).
		Q(title).
		Type("video").
		MaxResults(1).
		Context(ctx)

	start := time.Now()
	resp, err := call.Do()
	c.observe(opSearch, start, err)
	if err != nil {
		return Video{}, &UpstreamError{Op: opSearch, Err: err}
	}

	if len(resp.Items) == 0 {
		return Video{}, ErrNotFound
	}

	return videoFromResult(resp.Items[0])
}

// Playlists returns every playlist of the channel, following page tokens
// until the last page. A failed page fails the whole fetch.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	call := c.service.Playlists.List([]string{"snippet"}).
		ChannelId(c.channelID).
		MaxResults(c.pageSize)

	var (
		playlists []Playlist
		pages     int
	)

	start := time.Now()
	err := call.Pages(ctx, func(page *ytapi.PlaylistListResponse) error {
		pages++
		for _, item := range page.Items {
			playlists = append(playlists, playlistFromItem(item))
		}
		return nil
	})
	c.observe(opPlaylists, start, err)
	if err != nil {
		return nil, &UpstreamError{Op: opPlaylists, Err: err}
	}

	c.logger.Debug("Fetched playlists",
		slog.String("channel", c.channelID),
		slog.Int("pages", pages),
		slog.Int("playlists", len(playlists)))

	return playlists, nil
}

func (c *Client) observe(op string, start time.Time, err error) {
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Upstream call failed",
			slog.String("op", op),
			slog.Duration("duration", duration),
			slog.Any("err", err))
	}

	c.collector.Emit(metrics.MetricEvent{
		Type:     metrics.EventUpstreamCompleted,
		Key:      op,
		Duration: duration,
		Failed:   err != nil,
	})
}

func videoFromResult(item *ytapi.SearchResult) (Video, error) {
	if item == nil || item.Id == nil || item.Id.VideoId == "" {
		return Video{}, ErrNotFound
	}

	v := Video{ID: item.Id.VideoId}
	if item.Snippet != nil {
		v.Title = item.Snippet.Title
	}

	return v, nil
}

func playlistFromItem(item *ytapi.Playlist) Playlist {
	p := Playlist{ID: item.Id}
	if item.Snippet != nil {
		p.Title = item.Snippet.Title
	}
	return p
}
