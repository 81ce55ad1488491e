package watchdog

import (
	"context"
	"errors"
	"testing"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// fakeStore serves canned active entries and counts lookups
type fakeStore struct {
	entries map[string][]models.BlacklistEntry
	err     error
	calls   int
}

func (f *fakeStore) ActiveEntries(_ context.Context, discordID string) ([]models.BlacklistEntry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[discordID], nil
}

// fakeConfigs serves guild configs; missing guilds get ErrConfigMissing
type fakeConfigs struct {
	configs map[string]*models.WatchdogConfig
	err     error
}

func (f *fakeConfigs) Get(_ context.Context, guildID string) (*models.WatchdogConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg, ok := f.configs[guildID]
	if !ok {
		return nil, models.ErrConfigMissing
	}
	return cfg, nil
}

// fakePlatform records every mutation the executor attempts
type fakePlatform struct {
	bot     MemberState
	ownerID string
	targets map[string]*MemberState
	roles   map[string]*RoleState
	members []Member
	listErr error

	dms       []string
	roleAdds  []string
	kicks     []string
	bans      []string
	banReason string
	channels  map[string]int

	dmErr  error
	banErr error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		bot:      MemberState{UserID: "bot", HighestRolePos: 10, Permissions: discordgo.PermissionAll},
		ownerID:  "owner",
		targets:  make(map[string]*MemberState),
		roles:    make(map[string]*RoleState),
		channels: make(map[string]int),
	}
}

func (f *fakePlatform) BotState(string) (*MemberState, error) {
	bot := f.bot
	return &bot, nil
}

func (f *fakePlatform) TargetState(_, userID string) (*MemberState, error) {
	if t, ok := f.targets[userID]; ok {
		return t, nil
	}
	return &MemberState{UserID: userID, HighestRolePos: 0}, nil
}

func (f *fakePlatform) RoleState(_, roleID string) (*RoleState, error) {
	if r, ok := f.roles[roleID]; ok {
		return r, nil
	}
	return &RoleState{RoleID: roleID, Position: 1}, nil
}

func (f *fakePlatform) GuildOwnerID(string) (string, error) { return f.ownerID, nil }

func (f *fakePlatform) ListMembers(_ context.Context, _ string, limit int) ([]Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.members) > limit {
		return f.members[:limit], nil
	}
	return f.members, nil
}

func (f *fakePlatform) SendDirectEmbed(userID string, _ *discordgo.MessageEmbed) error {
	f.dms = append(f.dms, userID)
	return f.dmErr
}

func (f *fakePlatform) AddRole(_, userID, _ string) error {
	f.roleAdds = append(f.roleAdds, userID)
	return nil
}

func (f *fakePlatform) Kick(_, userID, _ string) error {
	f.kicks = append(f.kicks, userID)
	return nil
}

func (f *fakePlatform) Ban(_, userID, reason string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.bans = append(f.bans, userID)
	f.banReason = reason
	return nil
}

func (f *fakePlatform) SendChannelEmbed(channelID string, _ *discordgo.MessageEmbed) error {
	f.channels[channelID]++
	return nil
}

// fakeSink collects published enforcement events
type fakeSink struct {
	events []Event
}

func (f *fakeSink) PublishEnforcement(ev Event) { f.events = append(f.events, ev) }

func member(guildID, userID string) Member {
	return Member{GuildID: guildID, UserID: userID, Username: "user-" + userID}
}

func TestEnforceNoConfigShortCircuits(t *testing.T) {
	store := &fakeStore{}
	exec := NewExecutor(store, &fakeConfigs{}, newFakePlatform())

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerJoin)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusNoAction {
		t.Errorf("Status = %s, want no_action", outcome.Status)
	}
	if store.calls != 0 {
		t.Errorf("blacklist store consulted %d times for an unconfigured guild, want 0", store.calls)
	}
}

func TestEnforceNoEntries(t *testing.T) {
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	exec := NewExecutor(&fakeStore{}, configs, newFakePlatform())

	outcome, err := exec.Enforce(context.Background(), member("g1", "clean"), TriggerJoin)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusNoAction {
		t.Errorf("Status = %s, want no_action", outcome.Status)
	}
	if outcome.Punishment != models.PunishmentNone {
		t.Errorf("Punishment = %s, want NONE", outcome.Punishment)
	}
}

func TestEnforceAllNoneConfig(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{
		"u1": {entry(1, models.CategoryGeneral)},
	}}
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": {GuildID: "g1"}}}
	platform := newFakePlatform()
	exec := NewExecutor(store, configs, platform)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerScan)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusNoAction {
		t.Errorf("Status = %s, want no_action", outcome.Status)
	}
	if len(platform.bans)+len(platform.kicks)+len(platform.roleAdds) != 0 {
		t.Error("no platform mutation expected when everything resolves to NONE")
	}
}

func TestEnforceAppliedBan(t *testing.T) {
	e := entry(1, models.CategoryGeneral)
	e.Reason = "estafas verificadas"
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {e}}}

	cfg := models.DefaultWatchdogConfig("g1")
	cfg.LogChannelID = "log-chan"
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": cfg}}

	platform := newFakePlatform()
	sink := &fakeSink{}
	exec := NewExecutor(store, configs, platform, sink)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerJoin)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}

	if outcome.Status != StatusApplied {
		t.Fatalf("Status = %s, want applied", outcome.Status)
	}
	if outcome.Punishment != models.PunishmentBan {
		t.Errorf("Punishment = %s, want BAN", outcome.Punishment)
	}
	if len(platform.bans) != 1 || platform.bans[0] != "u1" {
		t.Errorf("bans = %v, want exactly [u1]", platform.bans)
	}
	if want := "Blacklisted under General: estafas verificadas"; platform.banReason != want {
		t.Errorf("ban reason = %q, want %q", platform.banReason, want)
	}
	if len(platform.dms) != 1 {
		t.Errorf("direct notifications = %d, want 1", len(platform.dms))
	}
	if platform.channels["log-chan"] != 1 {
		t.Errorf("audit log writes = %d, want 1", platform.channels["log-chan"])
	}
	if len(sink.events) != 1 {
		t.Fatalf("published events = %d, want 1", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Punishment != models.PunishmentBan || ev.Trigger != TriggerJoin || ev.UserID != "u1" {
		t.Errorf("event = %+v missing expected fields", ev)
	}
}

func TestEnforceWarnOnlyNotifies(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {entry(1, models.CategoryFiveM)}}}
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	platform := newFakePlatform()
	exec := NewExecutor(store, configs, platform)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerScan)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusApplied || outcome.Punishment != models.PunishmentWarn {
		t.Fatalf("outcome = %+v, want applied WARN", outcome)
	}
	if len(platform.bans)+len(platform.kicks)+len(platform.roleAdds) != 0 {
		t.Error("WARN must not mutate the guild")
	}
	if len(platform.dms) != 1 {
		t.Errorf("direct notifications = %d, want 1", len(platform.dms))
	}
}

func TestEnforceClosedDMDoesNotAbort(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {entry(1, models.CategoryGeneral)}}}
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	platform := newFakePlatform()
	platform.dmErr = errors.New("cannot send messages to this user")
	exec := NewExecutor(store, configs, platform)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerJoin)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusApplied {
		t.Errorf("Status = %s, want applied despite closed DMs", outcome.Status)
	}
	if len(platform.bans) != 1 {
		t.Errorf("bans = %v, want the ban to proceed", platform.bans)
	}
}

func TestEnforceGuardRejectionAborts(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {entry(1, models.CategoryGeneral)}}}

	cfg := models.DefaultWatchdogConfig("g1")
	cfg.ErrorLogChannelID = "err-chan"
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": cfg}}

	platform := newFakePlatform()
	platform.targets["u1"] = &MemberState{UserID: "u1", HighestRolePos: 50}
	sink := &fakeSink{}
	exec := NewExecutor(store, configs, platform, sink)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerJoin)
	if err != nil {
		t.Fatalf("guard rejection must not be an error, got: %v", err)
	}
	if outcome.Status != StatusAborted {
		t.Fatalf("Status = %s, want aborted", outcome.Status)
	}
	if outcome.Reason == "" {
		t.Error("aborted outcome must carry the rejection reason")
	}
	if len(platform.bans)+len(platform.kicks)+len(platform.roleAdds) != 0 {
		t.Error("aborted enforcement must not mutate the guild")
	}
	if platform.channels["err-chan"] != 1 {
		t.Errorf("error-log writes = %d, want 1", platform.channels["err-chan"])
	}
	if len(sink.events) != 0 {
		t.Error("aborted enforcement must not publish events")
	}
}

func TestEnforceRoleWithoutConfiguredRoleAborts(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {entry(1, models.CategoryGeneral)}}}

	cfg := models.DefaultWatchdogConfig("g1")
	cfg.GeneralPunishment = models.PunishmentRole // no RoleID set
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": cfg}}

	platform := newFakePlatform()
	exec := NewExecutor(store, configs, platform)

	outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerManual)
	if err != nil {
		t.Fatalf("Enforce() returned error: %v", err)
	}
	if outcome.Status != StatusAborted {
		t.Errorf("Status = %s, want aborted when no punishment role is configured", outcome.Status)
	}
	if len(platform.roleAdds) != 0 {
		t.Error("no role should be assigned")
	}
}

func TestEnforceIdempotentReinvocation(t *testing.T) {
	store := &fakeStore{entries: map[string][]models.BlacklistEntry{"u1": {entry(1, models.CategoryFiveM)}}}
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	platform := newFakePlatform()
	exec := NewExecutor(store, configs, platform)

	for i := 0; i < 2; i++ {
		outcome, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerScan)
		if err != nil {
			t.Fatalf("Enforce() run %d returned error: %v", i+1, err)
		}
		if outcome.Status != StatusApplied {
			t.Errorf("run %d Status = %s, want applied", i+1, outcome.Status)
		}
	}
}

func TestEnforceStoreFailureIsError(t *testing.T) {
	store := &fakeStore{err: errors.New("mongo down")}
	configs := &fakeConfigs{configs: map[string]*models.WatchdogConfig{"g1": models.DefaultWatchdogConfig("g1")}}
	exec := NewExecutor(store, configs, newFakePlatform())

	if _, err := exec.Enforce(context.Background(), member("g1", "u1"), TriggerJoin); err == nil {
		t.Error("store failure should surface as an error")
	}
}
