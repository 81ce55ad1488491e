// Package watchdog implements the blacklist enforcement engine: severity
// resolution, permission guarding, punishment execution and guild scanning.
package watchdog

import "github.com/MilkshakeCollective/StachioGo/pkg/models"

// umbrellaTable folds every fine-grained offense category into the umbrella
// category the guild configuration keys punishments by. Pure data so the
// fan-in is testable without touching the resolver.
var umbrellaTable = map[models.UserCategory]models.UmbrellaCategory{
	models.CategoryGeneral:          models.UmbrellaGeneral,
	models.CategoryScammer:          models.UmbrellaGeneral,
	models.CategoryToxicBehavior:    models.UmbrellaGeneral,
	models.CategoryDataLeaker:       models.UmbrellaGeneral,
	models.CategoryDDoSer:           models.UmbrellaGeneral,
	models.CategoryAltAccount:       models.UmbrellaGeneral,
	models.CategoryExploitAbuser:    models.UmbrellaGeneral,
	models.CategoryCheater:          models.UmbrellaGeneral,
	models.CategoryDeveloperAbuse:   models.UmbrellaGeneral,
	models.CategoryImpersonator:     models.UmbrellaGeneral,
	models.CategoryAdvertiser:       models.UmbrellaGeneral,
	models.CategoryPhisher:          models.UmbrellaGeneral,
	models.CategoryFiveM:            models.UmbrellaFiveM,
	models.CategoryServerRaider:     models.UmbrellaDiscord,
	models.CategoryNSFWDistributor:  models.UmbrellaDiscord,
	models.CategoryRoblox:           models.UmbrellaRoblox,
	models.CategoryOtherGame:        models.UmbrellaOtherGame,
	models.CategoryExploitDeveloper: models.UmbrellaOtherGame,
	models.CategoryMarketplace:      models.UmbrellaMarketplace,
	models.CategoryChargebacker:     models.UmbrellaMarketplace,
	models.CategoryFraudulentSeller: models.UmbrellaMarketplace,
	models.CategoryAccountSeller:    models.UmbrellaMarketplace,
}

// UmbrellaFor returns the umbrella category a fine-grained category folds
// into. Unknown categories resolve to no umbrella (ok=false) and never
// trigger enforcement.
func UmbrellaFor(c models.UserCategory) (models.UmbrellaCategory, bool) {
	u, ok := umbrellaTable[c]
	return u, ok
}
