package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/channel-proxy/internal/matcher"
	"github.com/angeloszaimis/channel-proxy/internal/youtube"
)

const usage = "To try the API, open:\n" +
	"- /playlists\n" +
	"- /playlists?name=<playlist_name>\n" +
	"- /latest_video\n" +
	"- /video?title=<video_title>"

// Upstream is the subset of the YouTube client the handlers need.
type Upstream interface {
	LatestVideo(ctx context.Context) (youtube.Video, error)
	SearchVideo(ctx context.Context, title string) (youtube.Video, error)
	Playlists(ctx context.Context) ([]youtube.Playlist, error)
}

// Options tunes the playlist suggestions and bounds upstream work per request.
// Zero MaxSuggestions or Cutoff select the matcher defaults.
type Options struct {
	MaxSuggestions int
	Cutoff         float64
	// Timeout caps the upstream calls of one request; zero means no cap.
	Timeout time.Duration
}

type ChannelHandler struct {
	logger   *slog.Logger
	upstream Upstream
	opts     Options
}

func NewChannelHandler(logger *slog.Logger, upstream Upstream, opts Options) *ChannelHandler {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = matcher.DefaultMaxSuggestions
	}
	if opts.Cutoff <= 0 {
		opts.Cutoff = matcher.DefaultCutoff
	}

	return &ChannelHandler{
		logger:   logger,
		upstream: upstream,
		opts:     opts,
	}
}

// Index serves the usage text.
func (h *ChannelHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, r, http.StatusOK, usage)
}

// LatestVideo serves the channel's most recent upload.
func (h *ChannelHandler) LatestVideo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	video, err := h.upstream.LatestVideo(ctx)
	switch {
	case errors.Is(err, youtube.ErrNotFound):
		h.writeText(w, r, http.StatusNotFound, "No videos found")
	case err != nil:
		h.writeText(w, r, http.StatusInternalServerError, "Error fetching latest video: "+err.Error())
	default:
		h.writeText(w, r, http.StatusOK, video.String())
	}
}

// Playlists lists every playlist, or only those whose title contains the
// name parameter. A name matching nothing answers 404 with suggestions.
func (h *ChannelHandler) Playlists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	playlists, err := h.upstream.Playlists(ctx)
	if err != nil {
		h.writeText(w, r, http.StatusInternalServerError, "Error fetching data: "+err.Error())
		return
	}

	if name == "" {
		h.writeText(w, r, http.StatusOK, joinLines(playlists))
		return
	}

	matched := matcher.Filter(name, playlists, playlistTitle)
	if len(matched) > 0 {
		h.writeText(w, r, http.StatusOK, joinLines(matched))
		return
	}

	titles := make([]string, 0, len(playlists))
	for _, p := range playlists {
		titles = append(titles, p.Title)
	}
	suggestions := matcher.Suggest(name, titles, h.opts.MaxSuggestions, h.opts.Cutoff)

	loggerFrom(r.Context(), h.logger).Info("Playlist not found",
		slog.String("name", name),
		slog.Int("suggestions", len(suggestions)))

	if len(suggestions) == 0 {
		h.writeText(w, r, http.StatusNotFound, "Playlist not found. No suggestions available.")
		return
	}
	h.writeText(w, r, http.StatusNotFound, "Playlist not found. Suggestions: "+strings.Join(suggestions, ", "))
}

// Video serves the first video of the channel matching the title parameter.
func (h *ChannelHandler) Video(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		h.writeText(w, r, http.StatusBadRequest, `Please provide a video title using the "title" query parameter.`)
		return
	}

	ctx, cancel := h.upstreamContext(r)
	defer cancel()

	video, err := h.upstream.SearchVideo(ctx, title)
	switch {
	case errors.Is(err, youtube.ErrNotFound):
		h.writeText(w, r, http.StatusNotFound, `No video found matching the title "`+title+`".`)
	case err != nil:
		h.writeText(w, r, http.StatusInternalServerError, "Error fetching video: "+err.Error())
	default:
		h.writeText(w, r, http.StatusOK, video.String())
	}
}

func (h *ChannelHandler) upstreamContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.opts.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.opts.Timeout)
}

func playlistTitle(p youtube.Playlist) string {
	return p.Title
}

func joinLines[T interface{ String() string }](items []T) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.String())
	}
	return strings.Join(lines, "\n")
}

func (h *ChannelHandler) writeText(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	if _, err := io.WriteString(w, body); err != nil {
		loggerFrom(r.Context(), h.logger).Warn("Failed to write response",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Any("err", err))
	}
}
