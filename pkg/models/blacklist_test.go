package models

import (
	"testing"
	"time"
)

func TestEntryActiveAt(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		entry  BlacklistEntry
		active bool
	}{
		{
			name:   "permanent active",
			entry:  BlacklistEntry{Active: true, Status: StatusPermanent},
			active: true,
		},
		{
			name:   "indefinite active",
			entry:  BlacklistEntry{Active: true, Status: StatusIndefinite},
			active: true,
		},
		{
			name:   "flag off",
			entry:  BlacklistEntry{Active: false, Status: StatusPermanent},
			active: false,
		},
		{
			name:   "temporary with future expiry",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary, ExpiresAt: &future},
			active: true,
		},
		{
			name:   "temporary expired",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary, ExpiresAt: &past},
			active: false,
		},
		{
			name:   "temporary without expiry",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary},
			active: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.ActiveAt(now); got != tt.active {
				t.Errorf("ActiveAt() = %v, want %v", got, tt.active)
			}
		})
	}
}

func TestEntryLapsed(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		entry  BlacklistEntry
		lapsed bool
	}{
		{
			name:   "temporary expired",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary, ExpiresAt: &past},
			lapsed: true,
		},
		{
			name:   "temporary without expiry",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary},
			lapsed: true,
		},
		{
			name:   "temporary still valid",
			entry:  BlacklistEntry{Active: true, Status: StatusTemporary, ExpiresAt: &future},
			lapsed: false,
		},
		{
			name:   "permanent never lapses",
			entry:  BlacklistEntry{Active: true, Status: StatusPermanent},
			lapsed: false,
		},
		{
			name:   "already inactive",
			entry:  BlacklistEntry{Active: false, Status: StatusTemporary, ExpiresAt: &past},
			lapsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Lapsed(now); got != tt.lapsed {
				t.Errorf("Lapsed() = %v, want %v", got, tt.lapsed)
			}
		})
	}
}
