package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"digestbot/internal/domain/entity"
	"digestbot/internal/usecase/extract"
)

const (
	androidClientVersion = "20.10.38"
	androidUserAgent     = "com.google.android.youtube/20.10.38 (Linux; U; Android 11) gzip"
)

// playerResponse is the subset of the /player response the client reads.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions *struct {
		Renderer *struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string    `json:"baseUrl"`
	LanguageCode string    `json:"languageCode"`
	Kind         string    `json:"kind"`
	Name         trackName `json:"name"`
}

// trackName is either {"simpleText": "..."} or {"runs": [{"text": "..."}]}.
type trackName struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (n trackName) String() string {
	if n.SimpleText != "" {
		return n.SimpleText
	}
	var b strings.Builder
	for _, r := range n.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Client lists and downloads caption tracks. It implements extract.TranscriptSource.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client using cfg.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// ListTracks returns the caption tracks of videoID in the order YouTube lists them.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]entity.TranscriptTrack, error) {
	player, err := c.player(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return tracksOf(videoID, player)
}

// FetchTranscript downloads the transcript of the first track matching languages.
// See extract.TranscriptSource for the selection rules.
func (c *Client) FetchTranscript(ctx context.Context, videoID string, languages []string) (entity.Transcript, error) {
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, ok := SelectTrack(tracks, languages)
	if !ok {
		return nil, fmt.Errorf("video %s, languages %v, available %v: %w",
			videoID, languages, entity.LanguageCodes(tracks), extract.ErrNoTranscriptFound)
	}

	slog.DebugContext(ctx, "fetching transcript track",
		slog.String("video_id", videoID),
		slog.String("language", track.LanguageCode),
		slog.Bool("generated", track.Generated))

	return c.timedText(ctx, track.BaseURL)
}

// SelectTrack picks a track for languages. For each language in order a manually
// created track wins over a generated one. Empty languages select the first
// manual track, else the first generated track.
func SelectTrack(tracks []entity.TranscriptTrack, languages []string) (entity.TranscriptTrack, bool) {
	if len(languages) == 0 {
		for _, generated := range []bool{false, true} {
			for _, t := range tracks {
				if t.Generated == generated {
					return t, true
				}
			}
		}
		return entity.TranscriptTrack{}, false
	}

	for _, lang := range languages {
		for _, generated := range []bool{false, true} {
			for _, t := range tracks {
				if t.Generated == generated && t.LanguageCode == lang {
					return t, true
				}
			}
		}
	}
	return entity.TranscriptTrack{}, false
}

func tracksOf(videoID string, player *playerResponse) ([]entity.TranscriptTrack, error) {
	if player.Captions == nil || player.Captions.Renderer == nil || len(player.Captions.Renderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, extract.ErrTranscriptsDisabled)
	}

	raw := player.Captions.Renderer.CaptionTracks
	tracks := make([]entity.TranscriptTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, entity.TranscriptTrack{
			LanguageCode: t.LanguageCode,
			Name:         t.Name.String(),
			Generated:    t.Kind == "asr",
			BaseURL:      t.BaseURL,
		})
	}
	return tracks, nil
}

func (c *Client) player(ctx context.Context, videoID string) (*playerResponse, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":        "ANDROID",
				"clientVersion":     androidClientVersion,
				"androidSdkVersion": 30,
				"userAgent":         androidUserAgent,
				"hl":                c.cfg.Language,
				"gl":                "US",
			},
		},
		"videoId":        videoID,
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal player request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/youtubei/v1/player?prettyPrint=false"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidClientVersion)

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("player request for %s: %w", videoID, err)
	}

	var player playerResponse
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}

	if status := player.PlayabilityStatus.Status; status != "OK" {
		return nil, fmt.Errorf("video %s is %s (%s): %w",
			videoID, status, player.PlayabilityStatus.Reason, extract.ErrVideoUnavailable)
	}
	return &player, nil
}

func (c *Client) timedText(ctx context.Context, baseURL string) (entity.Transcript, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse caption url: %w", err)
	}
	// srv3 is the rich format; the default format is the flat <transcript> document.
	q := u.Query()
	q.Del("fmt")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create caption request: %w", err)
	}
	req.Header.Set("User-Agent", androidUserAgent)

	data, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("caption request: %w", err)
	}
	return ParseTimedText(data)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.cfg.MaxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", c.cfg.MaxBodySize)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return data, nil
}
