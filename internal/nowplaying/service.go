package nowplaying

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bailey339/websiteThatlegendjack/internal/tokens"
	"github.com/bailey339/websiteThatlegendjack/params"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

type AccessTokenSource interface {
	GetValidAccessToken(ctx context.Context) (string, error)
}

type cacheEntry struct {
	accessToken string
	result      *Result
	fetchedAt   time.Time
}

// Service reports what the connected account is playing. Results are shared
// between concurrent callers and reused for a short while so that many
// visitors polling the page cost a single Spotify request.
type Service struct {
	tokens     AccessTokenSource
	httpClient *http.Client
	apiBaseURL string
	cacheTTL   time.Duration
	now        func() time.Time
	group      singleflight.Group

	mu    sync.Mutex
	cache *cacheEntry
}

// GetNowPlaying never returns an error for a missing or unusable token; that
// is reported as StatusNotConnected. Errors wrap ErrUpstream.
func (s *Service) GetNowPlaying(ctx context.Context) (*Result, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx)
	if err != nil {
		if !errors.Is(err, tokens.ErrNotConnected) {
			slog.Warn("No usable Spotify access token", "error", err)
		}
		return &Result{Status: StatusNotConnected}, nil
	}

	if result := s.cached(accessToken); result != nil {
		return result, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(accessToken, func() (interface{}, error) {
		return s.fetch(flightCtx, accessToken)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) cached(accessToken string) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil || s.cache.accessToken != accessToken {
		return nil
	}
	if s.now().Sub(s.cache.fetchedAt) >= s.cacheTTL {
		return nil
	}
	return s.cache.result
}

func (s *Service) fetch(ctx context.Context, accessToken string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, params.UpstreamTimeout)
	defer cancel()

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), tokenSource)

	var opts []spotify.ClientOption
	if s.apiBaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(s.apiBaseURL))
	}
	client := spotify.New(httpClient, opts...)

	playing, err := client.PlayerCurrentlyPlaying(ctx)
	if err != nil {
		slog.Warn("Spotify currently playing request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	result := normalize(playing)
	s.mu.Lock()
	s.cache = &cacheEntry{accessToken: accessToken, result: result, fetchedAt: s.now()}
	s.mu.Unlock()
	return result, nil
}

func normalize(playing *spotify.CurrentlyPlaying) *Result {
	// 204 No Content decodes to an empty value without an item
	if playing == nil || playing.Item == nil {
		return &Result{Status: StatusNotPlaying}
	}

	item := playing.Item
	names := make([]string, 0, len(item.Artists))
	for _, artist := range item.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}
	artists := strings.Join(names, ", ")
	if artists == "" {
		artists = params.UnknownArtist
	}

	track := &Track{
		Name:       item.Name,
		Artists:    artists,
		Album:      item.Album.Name,
		URL:        item.ExternalURLs["spotify"],
		IsPlaying:  playing.Playing,
		ProgressMs: int(playing.Progress),
		DurationMs: int(item.Duration),
	}
	if len(item.Album.Images) > 0 {
		track.AlbumArt = item.Album.Images[0].URL
	}
	return &Result{Status: StatusPlaying, Track: track}
}

// NewService builds a Service. An empty apiBaseURL uses the public Spotify
// Web API.
func NewService(tokenSource AccessTokenSource, httpClient *http.Client, apiBaseURL string) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: params.UpstreamTimeout}
	}
	if apiBaseURL != "" && !strings.HasSuffix(apiBaseURL, "/") {
		apiBaseURL += "/"
	}
	return &Service{
		tokens:     tokenSource,
		httpClient: httpClient,
		apiBaseURL: apiBaseURL,
		cacheTTL:   params.NowPlayingCacheTTL,
		now:        time.Now,
	}
}
