package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Sentinel errors for profile operations.
var (
	ErrDuplicateProfile = errors.New("profile already exists for this user")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrInvalidRank      = errors.New("invalid rank")
)

// Store owns all persisted bot state as a single JSON document. State is
// loaded once at Open and the whole document is rewritten on every mutation,
// so the file on disk is always a complete snapshot. A mutex guards the
// in-memory state because gateway events and the periodic runners execute on
// independent goroutines.
type Store struct {
	mu    sync.Mutex
	path  string
	state State
}

// Open loads the document at path, creating an empty store if the file does
// not exist yet. An old layout keyed by statusMessages is upgraded to the
// channels array and never written back in the old shape.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.state = State{RankRoles: map[Rank]string{}}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	// Upgrade the legacy single-board layout.
	if len(s.state.LegacyStatusMessages) > 0 && len(s.state.Channels) == 0 {
		for _, msg := range s.state.LegacyStatusMessages {
			s.state.Channels = append(s.state.Channels, ChannelRegistration{
				ChannelID: msg.ChannelID,
				MessageID: msg.MessageID,
			})
		}
	}
	s.state.LegacyStatusMessages = nil

	if s.state.RankRoles == nil {
		s.state.RankRoles = map[Rank]string{}
	}

	return s, nil
}

// save rewrites the full document in one write call. Callers hold the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

// Profile operations

// CreateProfile inserts a new profile with all notification latches cleared.
func (s *Store) CreateProfile(userID, username, inGameName string, rank Rank, endDate *time.Time, channelLink string) (Profile, error) {
	if !rank.Valid() {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidRank, rank)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Profiles {
		if s.state.Profiles[i].UserID == userID {
			return Profile{}, ErrDuplicateProfile
		}
	}

	now := time.Now().UTC()
	profile := Profile{
		UserID:        userID,
		Username:      username,
		InGameName:    inGameName,
		Rank:          rank,
		RankStartDate: now,
		RankEndDate:   endDate,
		ChannelLink:   channelLink,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.state.Profiles = append(s.state.Profiles, profile)

	if err := s.save(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// ProfileUpdate describes a partial profile update. Nil fields are left
// untouched. EndDate applies only when SetEndDate is true, so a bounded rank
// can be made permanent (nil end date); the same goes for ChannelLink, where
// an empty value clears the link.
type ProfileUpdate struct {
	Username       string
	InGameName     string
	Rank           Rank
	EndDate        *time.Time
	SetEndDate     bool
	StartDate      *time.Time
	ChannelLink    string
	SetChannelLink bool
}

// UpdateProfile applies the provided fields. Changing the end date resets all
// notification latches.
func (s *Store) UpdateProfile(userID string, upd ProfileUpdate) (Profile, error) {
	if upd.Rank != "" && !upd.Rank.Valid() {
		return Profile{}, fmt.Errorf("%w: %q", ErrInvalidRank, upd.Rank)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProfile(userID)
	if idx < 0 {
		return Profile{}, ErrProfileNotFound
	}
	p := &s.state.Profiles[idx]

	if upd.Username != "" {
		p.Username = upd.Username
	}
	if upd.InGameName != "" {
		p.InGameName = upd.InGameName
	}
	if upd.Rank != "" {
		p.Rank = upd.Rank
	}
	if upd.SetEndDate {
		p.RankEndDate = upd.EndDate
		p.Notifications = Notifications{}
	}
	if upd.StartDate != nil {
		p.RankStartDate = *upd.StartDate
	}
	if upd.SetChannelLink {
		p.ChannelLink = upd.ChannelLink
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.save(); err != nil {
		return Profile{}, err
	}
	return *p, nil
}

// DeleteProfile removes a profile and returns the removed record so the
// caller can run its side effects (role cleanup, DM).
func (s *Store) DeleteProfile(userID string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProfile(userID)
	if idx < 0 {
		return Profile{}, ErrProfileNotFound
	}

	removed := s.state.Profiles[idx]
	s.state.Profiles = append(s.state.Profiles[:idx], s.state.Profiles[idx+1:]...)

	if err := s.save(); err != nil {
		return Profile{}, err
	}
	return removed, nil
}

// GetProfile looks up a profile by user id.
func (s *Store) GetProfile(userID string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findProfile(userID)
	if idx < 0 {
		return Profile{}, false
	}
	return s.state.Profiles[idx], true
}

// Profiles returns all profiles in stored order.
func (s *Store) Profiles() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Profile, len(s.state.Profiles))
	copy(out, s.state.Profiles)
	return out
}

// MarkNotified flips notification latches for the given profiles and
// persists the registry once. Latches are one-shot: flags already true stay
// true. Unknown user ids are skipped.
func (s *Store) MarkNotified(updates map[string]Notifications) error {
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Profiles {
		n, ok := updates[s.state.Profiles[i].UserID]
		if !ok {
			continue
		}
		latches := &s.state.Profiles[i].Notifications
		latches.TwoDays = latches.TwoDays || n.TwoDays
		latches.OneDay = latches.OneDay || n.OneDay
		latches.Ended = latches.Ended || n.Ended
	}
	return s.save()
}

func (s *Store) findProfile(userID string) int {
	for i := range s.state.Profiles {
		if s.state.Profiles[i].UserID == userID {
			return i
		}
	}
	return -1
}

// Status board channels

// StatusChannels returns all registered status board channels.
func (s *Store) StatusChannels() []ChannelRegistration {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ChannelRegistration, len(s.state.Channels))
	copy(out, s.state.Channels)
	return out
}

// AddStatusChannel registers a channel for the recurring status board.
// It reports false if the channel is already registered. A channel belongs to
// exactly one guild, so matching is on channel id alone; entries migrated
// from the legacy layout carry no guild id and get it backfilled here.
func (s *Store) AddStatusChannel(guildID, channelID, messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Channels {
		if s.state.Channels[i].ChannelID != channelID {
			continue
		}
		if s.state.Channels[i].GuildID == "" && guildID != "" {
			s.state.Channels[i].GuildID = guildID
			return false, s.save()
		}
		return false, nil
	}

	s.state.Channels = append(s.state.Channels, ChannelRegistration{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
	})
	return true, s.save()
}

// SetStatusMessageID stores the board message for a registered channel.
func (s *Store) SetStatusMessageID(channelID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Channels {
		if s.state.Channels[i].ChannelID == channelID {
			s.state.Channels[i].MessageID = messageID
			return s.save()
		}
	}
	return fmt.Errorf("status channel %s is not registered", channelID)
}

// Log channel slots

// LogChannels returns the current log channel configuration.
func (s *Store) LogChannels() LogChannels {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LogChannels
}

// SetPublicLogChannel binds the public member log to a channel and clears the
// tracked section messages so the next refresh sends fresh ones.
func (s *Store) SetPublicLogChannel(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LogChannels.PublicLog = LogBoard{ChannelID: channelID}
	return s.save()
}

// SetAnnouncementsChannel binds the expiration announcements channel.
func (s *Store) SetAnnouncementsChannel(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LogChannels.MediaAnnouncements.ChannelID = channelID
	return s.save()
}

// SetAdminLogChannel binds the admin expiration log to a channel and clears
// the tracked section messages.
func (s *Store) SetAdminLogChannel(channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LogChannels.AdminLog = LogBoard{ChannelID: channelID}
	return s.save()
}

// SetLogMessageID stores the tracked message for one log board section.
func (s *Store) SetLogMessageID(slot BoardSlot, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case SlotPublicMedia:
		s.state.LogChannels.PublicLog.MediaMessageID = messageID
	case SlotPublicMediaPlus:
		s.state.LogChannels.PublicLog.MediaPlusMessageID = messageID
	case SlotAdminMedia:
		s.state.LogChannels.AdminLog.MediaMessageID = messageID
	case SlotAdminMediaPlus:
		s.state.LogChannels.AdminLog.MediaPlusMessageID = messageID
	default:
		return fmt.Errorf("unknown board slot %d", slot)
	}
	return s.save()
}

// Rank roles

// RankRole returns the mirrored role id for a rank, if configured.
func (s *Store) RankRole(rank Rank) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roleID, ok := s.state.RankRoles[rank]
	return roleID, ok
}

// SetRankRole maps a rank to a guild role id.
func (s *Store) SetRankRole(rank Rank, roleID string) error {
	if !rank.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRank, rank)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.RankRoles[rank] = roleID
	return s.save()
}

// UnsetRankRole removes a rank's role mapping. It reports false if none was
// configured.
func (s *Store) UnsetRankRole(rank Rank) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.RankRoles[rank]; !ok {
		return false, nil
	}
	delete(s.state.RankRoles, rank)
	return true, s.save()
}

// Peak players

// PeakPlayers returns the highest player count observed so far.
func (s *Store) PeakPlayers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PeakPlayers
}

// RecordPlayerCount folds an observed live player count into the peak
// counter. The document is persisted only when the peak actually increases.
func (s *Store) RecordPlayerCount(n int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n <= s.state.PeakPlayers {
		return false, nil
	}
	s.state.PeakPlayers = n
	return true, s.save()
}
