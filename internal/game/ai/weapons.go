package ai

import (
	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/world"
)

// WeaponCatalog converts the configured weapons into specs keyed by type.
func WeaponCatalog(cfg config.WeaponsConfig) map[world.WeaponType]world.WeaponSpec {
	return map[world.WeaponType]world.WeaponSpec{
		world.WaterPistol: {Type: world.WaterPistol, Damage: cfg.WaterPistol.Damage, Range: cfg.WaterPistol.Range},
		world.Mjolnir:     {Type: world.Mjolnir, Damage: cfg.Mjolnir.Damage, Range: cfg.Mjolnir.Range},
	}
}
