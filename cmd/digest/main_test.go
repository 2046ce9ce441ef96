package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an HTTP endpoint that stores request bodies and answers with a
// fixed response.
type recorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recorder) handler(contentType, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(body))
		r.mu.Unlock()
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		_, _ = io.WriteString(w, response)
	}
}

func (r *recorder) requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bodies...)
}

const llmReply = `{"choices":[{"index":0,"message":{"role":"assistant","content":"### Summary\nGo 1.25 ships."}}]}`

// setupEnv points the configuration at a fake completion server and returns it.
func setupEnv(t *testing.T) *recorder {
	t.Helper()

	llm := &recorder{}
	srv := httptest.NewServer(llm.handler("application/json", llmReply))
	t.Cleanup(srv.Close)

	t.Setenv("EXO_API_ENDPOINT", srv.URL)
	t.Setenv("CONTENT_FETCH_DENY_PRIVATE_IPS", "false")
	t.Setenv("ARTICLE_EXTRACTOR", "")
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("SLACK_WEBHOOK_URL", "")
	t.Setenv("FEEDS_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
	return llm
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWebCommand_PrintsDigest(t *testing.T) {
	llm := setupEnv(t)
	page := httptest.NewServer((&recorder{}).handler("text/html",
		`<html><body><article><p>The Go team released Go 1.25 today.</p></article></body></html>`))
	defer page.Close()

	out, err := execute(t, "web", page.URL)

	require.NoError(t, err)
	assert.Equal(t, "# Summary\nGo 1.25 ships.\n", out)
	require.Len(t, llm.requests(), 1)
	assert.Contains(t, llm.requests()[0], "The Go team released Go 1.25 today.")
}

func TestWebCommand_DeliverWithoutChannelsFails(t *testing.T) {
	setupEnv(t)
	page := httptest.NewServer((&recorder{}).handler("text/html", `<html><body><p>Hello.</p></body></html>`))
	defer page.Close()

	out, err := execute(t, "web", page.URL, "--deliver")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver")
	assert.NotEmpty(t, out)
}

func TestWebCommand_DeliversToDiscord(t *testing.T) {
	setupEnv(t)
	discord := &recorder{}
	hook := httptest.NewServer(discord.handler("", ""))
	defer hook.Close()
	t.Setenv("DISCORD_WEBHOOK_URL", hook.URL)

	page := httptest.NewServer((&recorder{}).handler("text/html", `<html><body><p>Hello.</p></body></html>`))
	defer page.Close()

	_, err := execute(t, "web", page.URL, "--deliver")

	require.NoError(t, err)
	assert.Equal(t, []string{`{"content":"# Summary\nGo 1.25 ships."}`}, discord.requests())
}

func TestYouTubeCommand_InvalidURLIsExplained(t *testing.T) {
	llm := setupEnv(t)

	out, err := execute(t, "youtube", "https://example.com/not-a-video")

	require.NoError(t, err)
	assert.Equal(t, "# Summary\nGo 1.25 ships.\n", out)
	require.Len(t, llm.requests(), 1)
	assert.Contains(t, llm.requests()[0], "invalid")
}

func TestCommands_RequireOneArgument(t *testing.T) {
	setupEnv(t)

	for _, name := range []string{"youtube", "web"} {
		t.Run(name, func(t *testing.T) {
			_, err := execute(t, name)
			assert.Error(t, err)
		})
	}
}

func TestFeedsPoll_AnnouncesRecentEntries(t *testing.T) {
	setupEnv(t)

	discord := &recorder{}
	hook := httptest.NewServer(discord.handler("", ""))
	defer hook.Close()
	t.Setenv("DISCORD_WEBHOOK_URL", hook.URL)

	page := httptest.NewServer((&recorder{}).handler("text/html", `<html><body><p>Release notes.</p></body></html>`))
	defer page.Close()

	fresh := time.Now().Add(-time.Hour).UTC().Format(time.RFC1123Z)
	stale := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC1123Z)
	rss := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test Feed</title>
<item><title>Fresh</title><link>%[1]s/fresh</link><pubDate>%[2]s</pubDate></item>
<item><title>Stale</title><link>%[1]s/stale</link><pubDate>%[3]s</pubDate></item>
</channel></rss>`, page.URL, fresh, stale)
	feedSrv := httptest.NewServer((&recorder{}).handler("application/rss+xml", rss))
	defer feedSrv.Close()

	file := filepath.Join(t.TempDir(), "feeds.yaml")
	require.NoError(t, os.WriteFile(file, []byte("feeds:\n  - url: "+feedSrv.URL+"\n"), 0o600))

	out, err := execute(t, "feeds", "poll", "--file", file)

	require.NoError(t, err)
	assert.Equal(t, "feeds: 1 polled, 0 failed; entries: 1 announced, 0 undelivered\n", out)
	posts := discord.requests()
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0], "New article from Test Feed")
	assert.Contains(t, posts[0], page.URL+"/fresh")
	assert.False(t, strings.Contains(posts[0], "/stale"))
}

func TestFeedsPoll_RequiresFeedsFile(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "feeds", "poll")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FEEDS_FILE")
}

func TestFeedsCheck_ReportsUnhealthyFeeds(t *testing.T) {
	setupEnv(t)

	rss := `<?xml version="1.0"?><rss version="2.0"><channel><title>Ok</title>
<item><title>A</title><link>https://example.com/a</link><pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate></item>
</channel></rss>`
	good := httptest.NewServer((&recorder{}).handler("application/rss+xml", rss))
	defer good.Close()
	bad := httptest.NewServer(http.NotFoundHandler())
	defer bad.Close()

	file := filepath.Join(t.TempDir(), "feeds.yaml")
	doc := "feeds:\n  - url: " + good.URL + "\n  - url: " + bad.URL + "\n"
	require.NoError(t, os.WriteFile(file, []byte(doc), 0o600))

	out, err := execute(t, "feeds", "check", "--file", file, "--json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 feeds unhealthy")
	assert.Contains(t, out, `"status": "OK"`)
	assert.Contains(t, out, `"status": "ERROR"`)
	assert.Contains(t, out, `"item_count": 1`)
}

func TestPrintChunks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printChunks(&buf, []string{"one", "two"}))
	assert.Equal(t, "one\n\ntwo\n", buf.String())
}
