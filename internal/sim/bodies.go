package sim

import "fight-club-core/internal/physics"

// Physics category bits. Every non-projectile body collides with
// projectiles; projectiles never collide with each other. Team-level
// friendly-fire suppression happens in the collision-mapping layer
// (collision.go), not here — the facade stays team-agnostic (§4.9).
const (
	catUnit uint32 = 1 << iota
	catBuilding
	catWall
	catProjectile
)

// physicsFilterForTeam is used by every non-projectile body (units,
// buildings, walls): it collides with projectiles only, never with other
// solids, since the core has no physical blocking/pushing (§1 non-goals).
func physicsFilterForTeam(team int32) physics.Filter {
	return physics.Filter{
		Category: catUnit | catBuilding | catWall,
		Mask:     catProjectile,
	}
}

func physicsFilterForProjectile() physics.Filter {
	return physics.Filter{
		Category: catProjectile,
		Mask:     catUnit | catBuilding | catWall,
	}
}

// physicsFixture wraps a catalog-defined shape as a body fixture.
func physicsFixture(shape physics.Shape, sensor bool) physics.Fixture {
	return physics.Fixture{Shape: shape, Sensor: sensor}
}

// sensorCircle builds a non-physical circular sensor fixture, used for
// shield projection (§4.6) and bunker garrison range.
func sensorCircle(radius float64) physics.Fixture {
	return physics.Fixture{Shape: physics.Shape{Kind: physics.ShapeCircle, Radius: radius}, Sensor: true}
}
