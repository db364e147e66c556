package youtube

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	watchURL    = "https://www.youtube.com/watch?v="
	playlistURL = "https://www.youtube.com/playlist?list="
)

// ErrNotFound is returned when the upstream answered successfully but had
// nothing matching the request.
var ErrNotFound = errors.New("not found")

// Video is a single upload of the channel.
type Video struct {
	ID    string
	Title string
}

// URL returns the watch page of the video.
func (v Video) URL() string {
	return watchURL + url.QueryEscape(v.ID)
}

// String renders the "<title>: <url>" line served to clients.
func (v Video) String() string {
	return v.Title + ": " + v.URL()
}

// Playlist is one playlist of the channel.
type Playlist struct {
	ID    string
	Title string
}

// URL returns the playlist page.
func (p Playlist) URL() string {
	return playlistURL + url.QueryEscape(p.ID)
}

// String renders the "<title>: <url>" line served to clients.
func (p Playlist) String() string {
	return p.Title + ": " + p.URL()
}

// UpstreamError wraps a transport failure or a non-2xx answer from the
// YouTube Data API. Op names the API method, e.g. "search.list".
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
