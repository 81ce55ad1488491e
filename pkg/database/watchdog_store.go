package database

import (
	"context"
	"fmt"
	"time"

	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

const watchdogCollection = "watchdog_configs"

// WatchdogStore persists per-guild enforcement settings. Reads go through
// the shared DataManager cache; every mutation writes through and refreshes
// the cached document.
type WatchdogStore struct {
	dm *DataManager[models.WatchdogConfig]
}

// NewWatchdogStore creates a store over the given database handle
func NewWatchdogStore(db *Database) *WatchdogStore {
	return &WatchdogStore{
		dm: NewDataManager[models.WatchdogConfig](watchdogCollection, db),
	}
}

// Get returns a guild's config or models.ErrConfigMissing when the guild
// never ran setup.
func (s *WatchdogStore) Get(ctx context.Context, guildID string) (*models.WatchdogConfig, error) {
	cfg, err := s.dm.Get(bson.M{"_id": guildID})
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, models.ErrConfigMissing
	}
	return cfg, nil
}

// Ensure creates the config with setup defaults when absent. It returns the
// stored config and whether this call created it, so repeated setup runs are
// idempotent and never clobber tuned punishments.
func (s *WatchdogStore) Ensure(ctx context.Context, guildID string) (*models.WatchdogConfig, bool, error) {
	existing, err := s.Get(ctx, guildID)
	if err == nil {
		return existing, false, nil
	}
	if err != models.ErrConfigMissing {
		return nil, false, err
	}

	cfg := models.DefaultWatchdogConfig(guildID)
	stored, err := s.dm.Set(bson.M{"_id": guildID}, cfg)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		// Write was queued offline; hand back what will be persisted.
		stored = cfg
	}

	logger.Success(fmt.Sprintf("Watchdog configurado con valores por defecto para el servidor %s", guildID), "WatchdogStore")
	return stored, true, nil
}

// SetPunishment updates the punishment for one umbrella category
func (s *WatchdogStore) SetPunishment(ctx context.Context, guildID string, umbrella models.UmbrellaCategory, punishment models.PunishmentType) (*models.WatchdogConfig, error) {
	if !punishment.Valid() {
		return nil, fmt.Errorf("castigo desconocido: %s", punishment)
	}

	return s.mutate(ctx, guildID, func(cfg *models.WatchdogConfig) error {
		if !cfg.SetPunishmentFor(umbrella, punishment) {
			return fmt.Errorf("categoría desconocida: %s", umbrella)
		}
		return nil
	})
}

// SetRole updates the role assigned by the ROLE punishment
func (s *WatchdogStore) SetRole(ctx context.Context, guildID, roleID string) (*models.WatchdogConfig, error) {
	return s.mutate(ctx, guildID, func(cfg *models.WatchdogConfig) error {
		cfg.RoleID = roleID
		return nil
	})
}

// SetLogChannel updates the audit log channel
func (s *WatchdogStore) SetLogChannel(ctx context.Context, guildID, channelID string) (*models.WatchdogConfig, error) {
	return s.mutate(ctx, guildID, func(cfg *models.WatchdogConfig) error {
		cfg.LogChannelID = channelID
		return nil
	})
}

// SetErrorLogChannel updates the channel that receives guard rejections
func (s *WatchdogStore) SetErrorLogChannel(ctx context.Context, guildID, channelID string) (*models.WatchdogConfig, error) {
	return s.mutate(ctx, guildID, func(cfg *models.WatchdogConfig) error {
		cfg.ErrorLogChannelID = channelID
		return nil
	})
}

// Delete removes a guild's config, disabling enforcement there
func (s *WatchdogStore) Delete(ctx context.Context, guildID string) error {
	return s.dm.Delete(bson.M{"_id": guildID})
}

// CountConfigured returns how many guilds have run setup
func (s *WatchdogStore) CountConfigured(ctx context.Context) (int64, error) {
	all, err := s.dm.GetAll(bson.M{})
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}

// mutate loads the config, applies fn and writes it back. Mutations on a
// guild that never ran setup fail with models.ErrConfigMissing.
func (s *WatchdogStore) mutate(ctx context.Context, guildID string, fn func(*models.WatchdogConfig) error) (*models.WatchdogConfig, error) {
	cfg, err := s.Get(ctx, guildID)
	if err != nil {
		return nil, err
	}

	if err := fn(cfg); err != nil {
		return nil, err
	}
	cfg.UpdatedAt = time.Now()

	stored, err := s.dm.Set(bson.M{"_id": guildID}, cfg)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		stored = cfg
	}
	return stored, nil
}
