package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filedrop/internal/client/apitest"
	"github.com/dmitrijs2005/filedrop/internal/client/client"
	"github.com/dmitrijs2005/filedrop/internal/client/models"
	"github.com/dmitrijs2005/filedrop/internal/logging"
)

type recordedSleeps struct {
	durations []time.Duration
	err       error
}

func (s *recordedSleeps) Sleep(_ context.Context, d time.Duration) error {
	s.durations = append(s.durations, d)
	return s.err
}

func newTestPickup(api client.Client) (*Pickup, *pickupView, *fakeTrigger, *manualClock, *recordedSleeps) {
	view := &pickupView{}
	trig := &fakeTrigger{}
	clock := newClock()
	sleeps := &recordedSleeps{}
	p := NewPickup(api, view, trig, logging.Nop(), PickupOptions{})
	p.now = clock.Now
	p.sleep = sleeps.Sleep
	return p, view, trig, clock, sleeps
}

func redeemed(t *testing.T) (*Pickup, *pickupView, *fakeTrigger, *manualClock, *recordedSleeps) {
	t.Helper()
	p, view, trig, clock, sleeps := newTestPickup(&fakeAPI{})
	require.NoError(t, p.Redeem(context.Background(), "ABC123"))
	return p, view, trig, clock, sleeps
}

func TestPickup_Redeem_EmptyCodeNeverReachesNetwork(t *testing.T) {
	for _, code := range []string{"", "   ", "\t\n"} {
		api := &fakeAPI{}
		p, view, _, _, _ := newTestPickup(api)

		require.ErrorIs(t, p.Redeem(context.Background(), code), ErrEmptyPickupCode)
		assert.Equal(t, 0, api.count("pickup"))
		assert.Equal(t, []string{MsgEnterCode}, view.messages())
		assert.Equal(t, PickupEntering, p.State().Phase)
	}
}

func TestPickup_Redeem_TrimsCodeAndLists(t *testing.T) {
	api := &fakeAPI{}
	p, view, _, _, _ := newTestPickup(api)

	require.NoError(t, p.Redeem(context.Background(), "  ABC123 \n"))
	assert.Equal(t, []string{"ABC123"}, api.codes)

	s := p.State()
	assert.Equal(t, PickupListing, s.Phase)
	assert.Len(t, s.Files, 3)
	assert.False(t, s.Batch.Visible)

	var phases []PickupPhase
	for _, r := range view.renders() {
		phases = append(phases, r.Phase)
	}
	assert.Equal(t, []PickupPhase{PickupRedeeming, PickupListing}, phases)
}

func TestPickup_Redeem_InvalidCodeShowsServerMessage(t *testing.T) {
	srv := apitest.New(t)
	p, view, _, _, _ := newTestPickup(newHTTPAPI(t, srv))

	err := p.Redeem(context.Background(), "NOPE")
	require.ErrorIs(t, err, client.ErrTransport)
	assert.Equal(t, []string{"pickup code invalid or expired"}, view.messages())
	assert.Equal(t, PickupEntering, p.State().Phase)

	// The form stays usable.
	require.ErrorIs(t, p.Download(context.Background(), "a.txt"), ErrNoCapability)
}

func TestPickup_AgainstFakeServer(t *testing.T) {
	srv := apitest.New(t)
	code := srv.AddGroup("g1", map[string][]byte{"a.txt": []byte("a"), "b b.txt": []byte("bb")}, "a.txt", "b b.txt")
	p, _, trig, _, _ := newTestPickup(newHTTPAPI(t, srv))

	require.NoError(t, p.Redeem(context.Background(), code))
	require.NoError(t, p.Download(context.Background(), "b b.txt"))

	paths := trig.triggered()
	require.Len(t, paths, 1)
	assert.Regexp(t, `^/download/g1/b%20b\.txt\?token=.+$`, paths[0])
}

func TestPickup_Download_WithoutCapability(t *testing.T) {
	p, view, trig, _, _ := newTestPickup(&fakeAPI{})

	require.ErrorIs(t, p.Download(context.Background(), "a.txt"), ErrNoCapability)
	assert.Equal(t, []string{MsgNoCapability}, view.messages())
	assert.Empty(t, trig.triggered())
}

func TestPickup_Download_TwiceWithinCooldownTriggersOnce(t *testing.T) {
	p, view, trig, clock, _ := redeemed(t)
	ctx := context.Background()

	require.NoError(t, p.Download(ctx, "a.txt"))
	assert.Equal(t, []string{"/download/g1/a.txt?token=tok"}, trig.triggered())

	clock.Advance(179 * time.Second)
	err := p.Download(ctx, "a.txt")
	require.ErrorIs(t, err, ErrDownloadInFlight)
	assert.Equal(t, []string{MsgDownloadInFlight}, view.messages())
	assert.Len(t, trig.triggered(), 1)

	clock.Advance(time.Second)
	assert.Equal(t, Available{}, p.LockState("a.txt"))
	require.NoError(t, p.Download(ctx, "a.txt"))
	assert.Len(t, trig.triggered(), 2)
}

func TestPickup_Download_TriggerFailureKeepsLock(t *testing.T) {
	p, view, trig, clock, _ := redeemed(t)
	trig.err = errors.New("no handler for downloads")

	err := p.Download(context.Background(), "a.txt")
	require.ErrorIs(t, err, trig.err)
	assert.Equal(t, []string{MsgDownloadFailed}, view.messages())
	assert.Equal(t, InFlight{Until: clock.Now().Add(3 * time.Minute)}, p.LockState("a.txt"))
}

func TestPickup_DownloadAll_SpacesTriggersAndReportsProgress(t *testing.T) {
	p, view, trig, _, sleeps := redeemed(t)
	start := len(view.renders())

	require.NoError(t, p.DownloadAll(context.Background()))

	assert.Equal(t, []string{
		"/download/g1/a.txt?token=tok",
		"/download/g1/b.txt?token=tok",
		"/download/g1/c.txt?token=tok",
	}, trig.triggered())
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, sleeps.durations)

	var hides int
	var seen []int
	var counters []string
	wasVisible := false
	for _, r := range view.renders()[start:] {
		if r.Batch.Visible {
			seen = append(seen, r.Batch.Percent)
			counters = append(counters, r.Batch.Counter())
		} else if wasVisible {
			hides++
		}
		wasVisible = r.Batch.Visible
	}
	assert.Equal(t, []int{0, 0, 33, 67, 100}, seen)
	assert.Equal(t, []string{"0/3", "1/3", "2/3", "3/3", "3/3"}, counters)
	assert.Equal(t, 1, hides)
	assert.False(t, p.State().Batch.Visible)
}

func TestPickup_DownloadAll_RepeatedPassSkipsLockedFiles(t *testing.T) {
	p, view, trig, _, _ := redeemed(t)
	ctx := context.Background()

	require.NoError(t, p.DownloadAll(ctx))
	assert.Empty(t, view.messages())
	require.NoError(t, p.DownloadAll(ctx))

	assert.Len(t, trig.triggered(), 3)
	assert.Equal(t, []string{MsgDownloadInFlight, MsgDownloadInFlight, MsgDownloadInFlight}, view.messages())
}

func TestPickup_DownloadAll_EmptyListIsNoop(t *testing.T) {
	api := &fakeAPI{pickupFn: func(context.Context, string) (*models.PickupResult, error) {
		return &models.PickupResult{Capability: models.Capability{FileGroupID: "g", Token: "t"}}, nil
	}}
	p, view, trig, _, sleeps := newTestPickup(api)
	require.NoError(t, p.Redeem(context.Background(), "C"))
	before := len(view.renders())

	require.NoError(t, p.DownloadAll(context.Background()))
	assert.Len(t, view.renders(), before)
	assert.Empty(t, trig.triggered())
	assert.Empty(t, sleeps.durations)
}

func TestPickup_DownloadAll_CancelledHidesProgress(t *testing.T) {
	p, _, trig, _, sleeps := redeemed(t)
	sleeps.err = context.Canceled

	err := p.DownloadAll(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, trig.triggered(), 1)
	assert.False(t, p.State().Batch.Visible)
}

func TestPickup_ResetDropsCapability(t *testing.T) {
	p, _, _, _, _ := redeemed(t)

	require.NoError(t, p.Reset())
	assert.Equal(t, PickupState{Phase: PickupEntering}, p.State())
	require.ErrorIs(t, p.Download(context.Background(), "a.txt"), ErrNoCapability)
	require.NoError(t, p.Reset())
}

func TestPickup_RedeemWhileListingIsIllegal(t *testing.T) {
	p, _, _, _, _ := redeemed(t)

	require.ErrorIs(t, p.Redeem(context.Background(), "OTHER"), ErrIllegalTransition)
}
