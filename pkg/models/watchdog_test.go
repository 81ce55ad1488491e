package models

import "testing"

func TestPunishmentSeverityOrder(t *testing.T) {
	ordered := []PunishmentType{
		PunishmentNone,
		PunishmentWarn,
		PunishmentRole,
		PunishmentKick,
		PunishmentBan,
	}

	for i := 1; i < len(ordered); i++ {
		lower, higher := ordered[i-1], ordered[i]
		if higher.Severity() <= lower.Severity() {
			t.Errorf("Severity(%s) = %d should be greater than Severity(%s) = %d",
				higher, higher.Severity(), lower, lower.Severity())
		}
	}

	if PunishmentType("INVENTED").Severity() != 0 {
		t.Error("unknown punishment should have severity 0")
	}
}

func TestPunishmentValid(t *testing.T) {
	valid := []PunishmentType{PunishmentNone, PunishmentWarn, PunishmentRole, PunishmentKick, PunishmentBan}
	for _, p := range valid {
		if !p.Valid() {
			t.Errorf("Valid(%s) = false, want true", p)
		}
	}

	if PunishmentType("TIMEOUT").Valid() {
		t.Error("Valid(\"TIMEOUT\") = true, want false")
	}
	if PunishmentType("").Valid() {
		t.Error("Valid(\"\") = true, want false")
	}
}

func TestPunishmentForRoundTrip(t *testing.T) {
	cfg := &WatchdogConfig{GuildID: "g1"}

	for _, u := range Umbrellas {
		if !cfg.SetPunishmentFor(u, PunishmentKick) {
			t.Errorf("SetPunishmentFor(%s) = false, want true", u)
		}
		if got := cfg.PunishmentFor(u); got != PunishmentKick {
			t.Errorf("PunishmentFor(%s) = %s, want KICK", u, got)
		}
	}

	if cfg.SetPunishmentFor(UmbrellaCategory("Minecraft"), PunishmentBan) {
		t.Error("SetPunishmentFor with unknown umbrella should return false")
	}
	if got := cfg.PunishmentFor(UmbrellaCategory("Minecraft")); got != PunishmentNone {
		t.Errorf("PunishmentFor with unknown umbrella = %s, want NONE", got)
	}
}

func TestDefaultWatchdogConfig(t *testing.T) {
	cfg := DefaultWatchdogConfig("g1")

	if cfg.GuildID != "g1" {
		t.Errorf("GuildID = %s, want g1", cfg.GuildID)
	}

	want := map[UmbrellaCategory]PunishmentType{
		UmbrellaGeneral:     PunishmentBan,
		UmbrellaFiveM:       PunishmentWarn,
		UmbrellaDiscord:     PunishmentKick,
		UmbrellaRoblox:      PunishmentWarn,
		UmbrellaOtherGame:   PunishmentWarn,
		UmbrellaMarketplace: PunishmentBan,
	}
	for u, p := range want {
		if got := cfg.PunishmentFor(u); got != p {
			t.Errorf("default PunishmentFor(%s) = %s, want %s", u, got, p)
		}
	}

	if cfg.CreatedAt.IsZero() || cfg.UpdatedAt.IsZero() {
		t.Error("timestamps should be set on the default config")
	}
}
