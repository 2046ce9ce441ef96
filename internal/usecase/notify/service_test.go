package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestbot/internal/usecase/notify"
)

// mockChannel records every message it is asked to send and fails on the
// configured call number.
type mockChannel struct {
	name    string
	enabled bool
	failOn  int // 1-based call number that fails; 0 never fails
	err     error

	mu   sync.Mutex
	sent []string
}

func (m *mockChannel) Name() string    { return m.name }
func (m *mockChannel) IsEnabled() bool { return m.enabled }

func (m *mockChannel) Send(_ context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return notify.ErrChannelDisabled
	}
	if m.failOn > 0 && len(m.sent)+1 == m.failOn {
		m.failOn = 0
		return m.err
	}
	m.sent = append(m.sent, message)
	return nil
}

func (m *mockChannel) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func TestDeliver_SendsChunksInOrderToEveryEnabledChannel(t *testing.T) {
	discord := &mockChannel{name: "discord", enabled: true}
	slack := &mockChannel{name: "slack", enabled: true}
	svc := notify.NewService(discord, slack)

	err := svc.Deliver(context.Background(), []string{"# Title", "part two", "part three"})

	require.NoError(t, err)
	want := []string{"# Title", "part two", "part three"}
	assert.Equal(t, want, discord.messages())
	assert.Equal(t, want, slack.messages())
}

func TestDeliver_SkipsDisabledChannels(t *testing.T) {
	discord := &mockChannel{name: "discord", enabled: true}
	slack := &mockChannel{name: "slack", enabled: false}
	svc := notify.NewService(discord, slack)

	require.NoError(t, svc.Deliver(context.Background(), []string{"hello"}))

	assert.Equal(t, []string{"hello"}, discord.messages())
	assert.Empty(t, slack.messages())
	assert.Equal(t, []string{"discord"}, svc.Channels())
}

func TestDeliver_SkipsBlankChunks(t *testing.T) {
	ch := &mockChannel{name: "discord", enabled: true}
	svc := notify.NewService(ch)

	require.NoError(t, svc.Deliver(context.Background(), []string{"", "abc", "  ", "def"}))

	assert.Equal(t, []string{"abc", "def"}, ch.messages())
}

func TestDeliver_NothingToSend(t *testing.T) {
	svc := notify.NewService(&mockChannel{name: "discord", enabled: true})

	assert.ErrorIs(t, svc.Deliver(context.Background(), nil), notify.ErrEmptyMessage)
	assert.ErrorIs(t, svc.Deliver(context.Background(), []string{"", " \n"}), notify.ErrEmptyMessage)
}

func TestDeliver_NoEnabledChannels(t *testing.T) {
	svc := notify.NewService(&mockChannel{name: "discord"}, &mockChannel{name: "slack"})

	err := svc.Deliver(context.Background(), []string{"hello"})

	assert.ErrorIs(t, err, notify.ErrNoChannels)
	assert.Empty(t, svc.Channels())
}

func TestDeliver_FailureStopsOnlyThatChannel(t *testing.T) {
	errBoom := errors.New("boom")
	discord := &mockChannel{name: "discord", enabled: true, failOn: 2, err: errBoom}
	slack := &mockChannel{name: "slack", enabled: true}
	svc := notify.NewService(discord, slack)

	err := svc.Deliver(context.Background(), []string{"one", "two", "three"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "chunk 2/3")
	// No retry, and nothing after the failed chunk.
	assert.Equal(t, []string{"one"}, discord.messages())
	assert.Equal(t, []string{"one", "two", "three"}, slack.messages())
}

func TestDeliver_CanceledContext(t *testing.T) {
	ch := &mockChannel{name: "discord", enabled: true}
	svc := notify.NewService(ch)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Deliver(ctx, []string{"one", "two"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ch.messages())
}
