package watchdog

import (
	"testing"

	"github.com/MilkshakeCollective/StachioGo/pkg/models"
)

func TestUmbrellaForCoversEveryCategory(t *testing.T) {
	for _, c := range models.Categories {
		if _, ok := UmbrellaFor(c); !ok {
			t.Errorf("category %s has no umbrella mapping", c)
		}
	}
}

func TestUmbrellaForMappings(t *testing.T) {
	tests := []struct {
		category models.UserCategory
		umbrella models.UmbrellaCategory
	}{
		{models.CategoryGeneral, models.UmbrellaGeneral},
		{models.CategoryScammer, models.UmbrellaGeneral},
		{models.CategoryPhisher, models.UmbrellaGeneral},
		{models.CategoryFiveM, models.UmbrellaFiveM},
		{models.CategoryServerRaider, models.UmbrellaDiscord},
		{models.CategoryNSFWDistributor, models.UmbrellaDiscord},
		{models.CategoryRoblox, models.UmbrellaRoblox},
		{models.CategoryOtherGame, models.UmbrellaOtherGame},
		{models.CategoryExploitDeveloper, models.UmbrellaOtherGame},
		{models.CategoryMarketplace, models.UmbrellaMarketplace},
		{models.CategoryChargebacker, models.UmbrellaMarketplace},
		{models.CategoryAccountSeller, models.UmbrellaMarketplace},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got, ok := UmbrellaFor(tt.category)
			if !ok {
				t.Fatalf("UmbrellaFor(%s) not found", tt.category)
			}
			if got != tt.umbrella {
				t.Errorf("UmbrellaFor(%s) = %s, want %s", tt.category, got, tt.umbrella)
			}
		})
	}
}

func TestUmbrellaForUnknown(t *testing.T) {
	if _, ok := UmbrellaFor(models.UserCategory("Invented")); ok {
		t.Error("unknown category should not resolve to an umbrella")
	}
}
