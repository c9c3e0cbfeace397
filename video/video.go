// Package video looks up metadata for the video being annotated. Lookups are
// best effort: callers only report the result and never depend on it.
package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ErrNotYouTube is returned for URLs that do not identify a YouTube video.
var ErrNotYouTube = errors.New("not a YouTube video URL")

// DefaultOEmbedEndpoint is YouTube's public oEmbed endpoint.
const DefaultOEmbedEndpoint = "https://www.youtube.com/oembed"

// Metadata describes a resolved video.
type Metadata struct {
	ID       string
	URL      string
	Title    string
	Author   string
	Provider string
}

// Resolver resolves a video URL to metadata.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (Metadata, error)
}

// OEmbedResolver resolves YouTube URLs through the oEmbed API.
type OEmbedResolver struct {
	Client   *http.Client
	Endpoint string
}

// NewOEmbedResolver returns a resolver using the public endpoint.
func NewOEmbedResolver(timeout time.Duration) *OEmbedResolver {
	return &OEmbedResolver{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: DefaultOEmbedEndpoint,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

// Resolve fetches the title and channel of a YouTube video.
func (r *OEmbedResolver) Resolve(ctx context.Context, rawURL string) (Metadata, error) {
	id, err := ExtractID(rawURL)
	if err != nil {
		return Metadata{}, err
	}
	watch := "https://www.youtube.com/watch?v=" + id

	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	q := url.Values{"url": {watch}, "format": {"json"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Metadata{}, fmt.Errorf("build oembed request: %w", err)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Metadata{}, fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Metadata{}, fmt.Errorf("oembed lookup for %s: %s", id, resp.Status)
	}

	var body oembedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return Metadata{}, fmt.Errorf("decode oembed response: %w", err)
	}
	return Metadata{
		ID:       id,
		URL:      watch,
		Title:    body.Title,
		Author:   body.AuthorName,
		Provider: body.ProviderName,
	}, nil
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractID returns the 11-character video ID from watch, short, embed,
// shorts, live and youtu.be URLs.
func ExtractID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrNotYouTube, rawURL)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" {
			id = u.Query().Get("v")
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "embed", "shorts", "live", "v":
				id = parts[1]
			}
		}
	}
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %s", ErrNotYouTube, rawURL)
	}
	return id, nil
}

// IsURL reports whether source looks like a remote URL rather than a local file.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
