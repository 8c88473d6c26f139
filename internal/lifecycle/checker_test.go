package lifecycle

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gurkirat164/Discord-Minecraft-Link-Bot/internal/storage"
)

type fakeNotifier struct {
	memberDMs  []string
	announces  []string
	ownerDMs   int
	revoked    []string
	dmErr      error
	lastMember *discordgo.MessageEmbed
}

func (n *fakeNotifier) NotifyMember(userID string, embed *discordgo.MessageEmbed) error {
	if n.dmErr != nil {
		return n.dmErr
	}
	n.memberDMs = append(n.memberDMs, userID)
	n.lastMember = embed
	return nil
}

func (n *fakeNotifier) Announce(channelID, content string, embed *discordgo.MessageEmbed) error {
	n.announces = append(n.announces, content)
	return nil
}

func (n *fakeNotifier) NotifyOwner(embed *discordgo.MessageEmbed) error {
	n.ownerDMs++
	return nil
}

func (n *fakeNotifier) RevokeRankRole(userID string, rank storage.Rank) error {
	n.revoked = append(n.revoked, userID)
	return nil
}

type fakeBoards struct {
	public int
	admin  int
}

func (b *fakeBoards) RefreshPublic() error { b.public++; return nil }
func (b *fakeBoards) RefreshAdmin() error  { b.admin++; return nil }

type fixture struct {
	store    *storage.Store
	notifier *fakeNotifier
	boards   *fakeBoards
	checker  *Checker
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	f := &fixture{
		store:    store,
		notifier: &fakeNotifier{},
		boards:   &fakeBoards{},
		clock:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.checker = NewChecker(store, f.notifier, f.boards)
	f.checker.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) sweep(t *testing.T) {
	t.Helper()
	require.NoError(t, f.checker.Sweep())
}

func TestSweepStagesFireOnceEach(t *testing.T) {
	f := newFixture(t)
	end := f.clock.Add(5 * 24 * time.Hour)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMedia, &end, "")
	require.NoError(t, err)

	// well before any threshold
	f.sweep(t)
	assert.Empty(t, f.notifier.memberDMs)

	// two days left
	f.advance(3*24*time.Hour + time.Hour)
	f.sweep(t)
	require.Len(t, f.notifier.memberDMs, 1)
	assert.Contains(t, f.notifier.lastMember.Description, "2 day(s)")
	assert.Empty(t, f.notifier.revoked)

	// same day again, nothing new
	f.sweep(t)
	assert.Len(t, f.notifier.memberDMs, 1)

	// one day left
	f.advance(24 * time.Hour)
	f.sweep(t)
	require.Len(t, f.notifier.memberDMs, 2)
	assert.Contains(t, f.notifier.lastMember.Description, "1 day(s)")

	// expired
	f.advance(24 * time.Hour)
	f.sweep(t)
	require.Len(t, f.notifier.memberDMs, 3)
	assert.Equal(t, []string{"77"}, f.notifier.revoked)
	assert.Equal(t, 1, f.notifier.ownerDMs)

	// long after, still silent
	f.advance(10 * 24 * time.Hour)
	f.sweep(t)
	assert.Len(t, f.notifier.memberDMs, 3)
	assert.Len(t, f.notifier.revoked, 1)
}

func TestSweepSkipsPermanentRanks(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMediaPlus, nil, "")
	require.NoError(t, err)

	f.advance(365 * 24 * time.Hour)
	f.sweep(t)

	assert.Empty(t, f.notifier.memberDMs)
	assert.Zero(t, f.boards.public)
}

func TestSweepLatchesEvenWhenDeliveryFails(t *testing.T) {
	f := newFixture(t)
	end := f.clock.Add(36 * time.Hour)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMedia, &end, "")
	require.NoError(t, err)

	f.notifier.dmErr = errors.New("cannot DM this user")
	f.sweep(t)
	assert.Empty(t, f.notifier.memberDMs)

	// delivery recovers, but the stage already fired
	f.notifier.dmErr = nil
	f.sweep(t)
	assert.Empty(t, f.notifier.memberDMs)

	p, ok := f.store.GetProfile("77")
	require.True(t, ok)
	assert.True(t, p.Notifications.TwoDays)
}

func TestSweepAnnouncesWhenChannelConfigured(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetAnnouncementsChannel("ann-chan"))

	end := f.clock.Add(36 * time.Hour)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMedia, &end, "")
	require.NoError(t, err)

	f.sweep(t)
	assert.Equal(t, []string{"<@77>"}, f.notifier.announces)
}

func TestSweepRefreshesBoardsOnlyWhenSomethingFired(t *testing.T) {
	f := newFixture(t)
	end := f.clock.Add(36 * time.Hour)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMedia, &end, "")
	require.NoError(t, err)

	f.sweep(t)
	assert.Equal(t, 1, f.boards.public)
	assert.Equal(t, 1, f.boards.admin)

	f.sweep(t)
	assert.Equal(t, 1, f.boards.public)
}

func TestRenewalRearmsNotifications(t *testing.T) {
	f := newFixture(t)
	end := f.clock.Add(36 * time.Hour)
	_, err := f.store.CreateProfile("77", "someone", "Someone", storage.RankMedia, &end, "")
	require.NoError(t, err)

	f.sweep(t)
	require.Len(t, f.notifier.memberDMs, 1)

	// the rank is extended, which clears the latches
	newEnd := f.clock.Add(10 * 24 * time.Hour)
	_, err = f.store.UpdateProfile("77", storage.ProfileUpdate{SetEndDate: true, EndDate: &newEnd})
	require.NoError(t, err)

	f.sweep(t)
	assert.Len(t, f.notifier.memberDMs, 1)

	// the new period reaches its own two-day mark
	f.advance(8*24*time.Hour + time.Hour)
	f.sweep(t)
	assert.Len(t, f.notifier.memberDMs, 2)
}

func TestSweepHandlesMultipleProfilesInOnePass(t *testing.T) {
	f := newFixture(t)
	warnEnd := f.clock.Add(36 * time.Hour)
	expiredEnd := f.clock.Add(-time.Hour)
	_, err := f.store.CreateProfile("1", "a", "A", storage.RankMedia, &warnEnd, "")
	require.NoError(t, err)
	_, err = f.store.CreateProfile("2", "b", "B", storage.RankMediaPlus, &expiredEnd, "")
	require.NoError(t, err)

	f.sweep(t)

	assert.ElementsMatch(t, []string{"1", "2"}, f.notifier.memberDMs)
	assert.Equal(t, []string{"2"}, f.notifier.revoked)
	assert.Equal(t, 1, f.boards.public)
}
