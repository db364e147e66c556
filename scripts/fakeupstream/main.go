// Fakeupstream is a stand-in for the YouTube Data API v3 used to run the
// proxy locally without an API key or quota. It serves /youtube/v3/search
// and /youtube/v3/playlists for a single synthetic channel.
//
// Usage:
//
//	go run ./scripts/fakeupstream -port 9000 -playlists 12
//	YOUTUBE_ENDPOINT=http://localhost:9000/ YOUTUBE_API_KEY=x YOUTUBE_CHANNEL_ID=UCfake go run ./cmd
//
// Page tokens are plain offsets into the playlist list.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	ytapi "google.golang.org/api/youtube/v3"
)

var topics = []string{"Go Tutorials", "Cooking Shows", "Live Streams", "Python Basics", "Music Videos", "Travel Vlogs"}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type fakeChannel struct {
	id        string
	playlists []*ytapi.Playlist
	videos    []*ytapi.SearchResult
}

func newFakeChannel(id string, playlists int) *fakeChannel {
	ch := &fakeChannel{id: id}

	for i := 0; i < playlists; i++ {
		title := topics[i%len(topics)]
		if i >= len(topics) {
			title = fmt.Sprintf("%s Vol. %d", title, i/len(topics)+1)
		}
		ch.playlists = append(ch.playlists, &ytapi.Playlist{
			Kind:    "youtube#playlist",
			Id:      fmt.Sprintf("PLfake%03d", i),
			Snippet: &ytapi.PlaylistSnippet{Title: title, ChannelId: id},
		})
	}

	// newest first, as search.list with order=date returns them
	for i := 9; i >= 0; i-- {
		ch.videos = append(ch.videos, &ytapi.SearchResult{
			Kind:    "youtube#searchResult",
			Id:      &ytapi.ResourceId{Kind: "youtube#video", VideoId: fmt.Sprintf("vidfake%02d", i)},
			Snippet: &ytapi.SearchResultSnippet{Title: fmt.Sprintf("%s episode %d", topics[i%len(topics)], i), ChannelId: id},
		})
	}

	return ch
}

func (ch *fakeChannel) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageSize, err := strconv.Atoi(q.Get("maxResults"))
	if err != nil || pageSize < 1 {
		pageSize = 5
	}

	offset := 0
	if token := q.Get("pageToken"); token != "" {
		offset, err = strconv.Atoi(token)
		if err != nil || offset < 0 || offset > len(ch.playlists) {
			writeError(w, http.StatusBadRequest, "invalid page token")
			return
		}
	}

	end := min(offset+pageSize, len(ch.playlists))
	resp := &ytapi.PlaylistListResponse{
		Kind:  "youtube#playlistListResponse",
		Items: ch.playlists[offset:end],
	}
	if end < len(ch.playlists) {
		resp.NextPageToken = strconv.Itoa(end)
	}

	writeJSON(w, resp)
}

func (ch *fakeChannel) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))

	// the proxy only ever asks for a single result
	var items []*ytapi.SearchResult
	for _, v := range ch.videos {
		if query == "" || strings.Contains(strings.ToLower(v.Snippet.Title), query) {
			items = append(items, v)
			break
		}
	}

	writeJSON(w, &ytapi.SearchListResponse{Kind: "youtube#searchListResponse", Items: items})
}

func (ch *fakeChannel) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		slog.Info("request", slog.String("path", r.URL.Path), slog.String("query", r.URL.RawQuery))

		if q.Get("key") == "" {
			writeError(w, http.StatusForbidden, "The request is missing a valid API key.")
			return
		}
		if q.Get("channelId") != ch.id {
			writeJSON(w, map[string]any{"items": []any{}})
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	var body apiError
	body.Error.Code = code
	body.Error.Message = msg

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func main() {
	port := flag.Int("port", 9000, "port to listen on")
	channelID := flag.String("channel", "UCfake", "channel id the fake answers for")
	playlists := flag.Int("playlists", 12, "number of playlists to generate")
	flag.Parse()

	ch := newFakeChannel(*channelID, *playlists)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /youtube/v3/playlists", ch.requireKey(ch.handlePlaylists))
	mux.HandleFunc("GET /youtube/v3/search", ch.requireKey(ch.handleSearch))

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("starting fake upstream", slog.String("addr", addr), slog.String("channel", *channelID))
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
