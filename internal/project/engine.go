package project

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/geometry"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/player"
	"github.com/cory-johannsen/spellcast/internal/game/world"
)

// Default limits.
const (
	DefaultMaxRange      = 20
	DefaultMaxGrids      = geometry.DefaultMaxGrids
	DefaultTeleportTries = 500
)

// DeathHandler is told about every death a projection causes, after the
// engine has removed the monster and dropped its loot.
type DeathHandler interface {
	MonsterDied(m *monster.Monster, byPlayer bool)
	PlayerDied(p *player.Player, killer string)
}

// Hooks receives scripted-event notifications.
type Hooks interface {
	MonsterDeath(raceID string, at cave.Loc, byPlayer bool)
	Projection(e effect.Type, obvious bool, grids int)
}

// Animator draws projections. It is never called for FlagHide requests.
type Animator interface {
	Bolt(path []cave.Loc, e effect.Type)
	Blast(grids []geometry.BlastGrid, e effect.Type)
}

// Options configures an Engine. Zero limits take the defaults; nil
// collaborators are skipped.
type Options struct {
	MaxRange      int
	MaxGrids      int
	ArcMaxRadius  int
	TeleportTries int
	Deaths        DeathHandler
	Hooks         Hooks
	Animator      Animator
}

// Engine resolves projections against one world.
//
// It is not safe for concurrent use; callers serialise projections.
type Engine struct {
	world  *world.World
	roller *dice.Roller
	logger *zap.Logger
	opts   Options
}

// NewEngine creates an Engine over w. A nil logger is replaced by a no-op.
//
// Precondition: w and roller must be non-nil.
func NewEngine(w *world.World, roller *dice.Roller, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRange <= 0 {
		opts.MaxRange = DefaultMaxRange
	}
	if opts.MaxGrids <= 0 {
		opts.MaxGrids = DefaultMaxGrids
	}
	if opts.ArcMaxRadius <= 0 || opts.ArcMaxRadius > geometry.MaxArcRadius {
		opts.ArcMaxRadius = geometry.MaxArcRadius
	}
	if opts.TeleportTries <= 0 {
		opts.TeleportTries = DefaultTeleportTries
	}
	return &Engine{world: w, roller: roller, logger: logger, opts: opts}
}

// World returns the world the engine mutates.
func (e *Engine) World() *world.World { return e.world }

// Project fires req and reports whether the player noticed anything.
func (e *Engine) Project(req Request) bool {
	return e.Resolve(req).Obvious
}

// call is the transient state of one projection. It owns the grid set,
// damage table and work-list for the duration of Resolve only.
type call struct {
	e      *Engine
	w      *world.World
	roller *dice.Roller
	req    Request
	info   *effect.Info
	origin cave.Loc
	damage int
	table  []int
	work   workList
	res    *Result
	// objectsDone holds the instance ids the object pass has resolved.
	objectsDone map[string]bool
}

// Resolve fires req and returns the full account of what happened.
//
// Postcondition: the deferred work-list is empty; no primary resolver ran
// more than once per grid.
func (e *Engine) Resolve(req Request) Result {
	c := &call{
		e:      e,
		w:      e.world,
		roller: e.roller,
		req:    req,
		info:   req.Effect.Info(),
		res:    &Result{},

		objectsDone: make(map[string]bool),
	}
	c.run()
	e.logger.Debug("projection",
		zap.String("effect", req.Effect.String()),
		zap.Stringer("flags", req.Flags),
		zap.Int("caster", req.Caster),
		zap.Stringer("origin", c.origin),
		zap.Stringer("target", req.Target),
		zap.Int("radius", req.Radius),
		zap.Int("damage", c.damage),
		zap.Int("grids", len(c.res.Grids)),
		zap.Int("marked", c.res.Marked),
		zap.Int("deferred", c.res.Deferred),
		zap.Bool("obvious", c.res.Obvious),
	)
	if h := e.opts.Hooks; h != nil && !req.Flags.Has(FlagMarkOnly) {
		h.Projection(req.Effect, c.res.Obvious, len(c.res.Grids))
	}
	return *c.res
}

func (c *call) run() {
	req := c.req
	maxRange := c.e.opts.MaxRange

	// (a) origin and the caster-square modifier.
	c.origin = c.resolveOrigin()
	c.damage = c.casterSquareDamage(max(req.Damage, 0))
	target := req.Target
	if req.Flags.Has(FlagJump) {
		c.origin = target
	}

	// (b) path and epicenter.
	var path []cave.Loc
	centre := c.origin
	if !req.Flags.Has(FlagArc) {
		pf := geometry.PathFlag(0)
		if req.Flags.Has(FlagThru) {
			pf |= geometry.PathThru
		}
		if req.Flags.Has(FlagStop) {
			pf |= geometry.PathStop
		}
		path = geometry.TracePath(c.w.Cave, c.origin, target, maxRange, pf)
		if len(path) > 0 {
			centre = path[len(path)-1]
			if req.Radius > 0 && len(path) > 1 && !c.w.Cave.Projectable(centre) {
				centre = path[len(path)-2]
			}
		}
	}
	c.res.Path = path
	c.res.Centre = centre

	// (c) affected grids.
	radius := min(max(req.Radius, 0), maxRange)
	if req.Flags.Has(FlagArc) {
		radius = min(radius, c.e.opts.ArcMaxRadius)
	}
	switch {
	case req.Flags.Has(FlagArc):
		c.res.Grids = geometry.CollectBlast(c.w.Cave, geometry.Blast{
			Centre:  c.origin,
			Radius:  radius,
			Shape:   geometry.ShapeArc,
			Toward:  target,
			Degrees: req.ArcDegrees,
			Scorch:  req.Flags.Has(FlagGrid),
		}, c.e.opts.MaxGrids)
	case req.Flags.Has(FlagBeam):
		c.res.Grids = c.beamGrids(path, centre, radius)
	default:
		c.res.Grids = geometry.CollectBlast(c.w.Cave, geometry.Blast{
			Centre: centre,
			Radius: radius,
			Shape:  geometry.ShapeBall,
			Scorch: req.Flags.Has(FlagGrid),
		}, c.e.opts.MaxGrids)
	}

	// (d) damage table. Beam grids all sit at distance 0.
	c.table = DistanceTable(c.damage, radius, req.SourceDiameter, maxRange)
	c.res.Table = c.table

	if req.Flags.Has(FlagMarkOnly) {
		return
	}
	c.animate(path)

	c.w.UpdateVisibility()

	// (f) primary passes, each gated only by its capability flag.
	if req.Flags.Has(FlagGrid) {
		for _, g := range c.res.Grids {
			if c.resolveFeature(g) {
				c.res.Obvious = true
			}
		}
	}
	if req.Flags.Has(FlagItem) {
		for _, g := range c.res.Grids {
			if c.resolveObjects(g) {
				c.res.Obvious = true
			}
		}
	}
	if req.Flags.Has(FlagKill) {
		for _, g := range c.res.Grids {
			if c.resolveMonster(g) {
				c.res.Obvious = true
			}
		}
	}
	if req.Flags.Has(FlagPlayer) {
		for _, g := range c.res.Grids {
			if c.resolvePlayer(g) {
				c.res.Obvious = true
			}
		}
	}

	// (g) deferred pass over the work-list only.
	if c.drain() {
		c.res.Obvious = true
	}
}

// resolveOrigin finds where the caster stands; a caster that is no longer
// on the map falls back to req.Origin.
func (c *call) resolveOrigin() cave.Loc {
	switch {
	case c.req.Caster == cave.PlayerOccupant && c.w.Player != nil:
		return c.w.Player.Loc
	case c.req.Caster > 0:
		if m, ok := c.w.Monsters.Get(c.req.Caster); ok {
			return m.Loc
		}
	}
	return c.req.Origin
}

// casterSquareDamage applies the caster's footing.
func (c *call) casterSquareDamage(dam int) int {
	if c.req.Caster == cave.NoOccupant {
		return dam
	}
	return footingDamage(c.w.Cave.Feature(c.resolveOrigin()), c.info.Element, dam)
}

// footingDamage adjusts dam by a third for the terrain underfoot: fire is fed
// by lava and damped by water, cold and lightning are carried by water.
func footingDamage(f *cave.Feature, e effect.Element, dam int) int {
	switch e {
	case effect.ElemFire:
		if f.Has(cave.Lava) {
			return dam + dam/3
		}
		if f.Has(cave.Water) {
			return dam - dam/3
		}
	case effect.ElemCold, effect.ElemElec:
		if f.Has(cave.Water) {
			return dam + dam/3
		}
	}
	return dam
}

// beamGrids turns the path into distance-0 grids, then adds the blast at
// its end when the beam has a radius.
func (c *call) beamGrids(path []cave.Loc, centre cave.Loc, radius int) []geometry.BlastGrid {
	seen := make(map[cave.Loc]bool, len(path))
	out := make([]geometry.BlastGrid, 0, len(path))
	for _, l := range path {
		if len(out) >= c.e.opts.MaxGrids {
			break
		}
		seen[l] = true
		out = append(out, geometry.BlastGrid{Loc: l})
	}
	if radius > 0 {
		for _, g := range geometry.CollectBlast(c.w.Cave, geometry.Blast{
			Centre: centre, Radius: radius, Shape: geometry.ShapeBall, Scorch: c.req.Flags.Has(FlagGrid),
		}, c.e.opts.MaxGrids) {
			if len(out) >= c.e.opts.MaxGrids {
				break
			}
			if !seen[g.Loc] {
				seen[g.Loc] = true
				out = append(out, g)
			}
		}
	}
	return geometry.SortByDistance(out, radius)
}

func (c *call) animate(path []cave.Loc) {
	a := c.e.opts.Animator
	if a == nil || c.req.Flags.Has(FlagHide) {
		return
	}
	if len(path) > 1 && !c.req.Flags.Has(FlagBeam) {
		a.Bolt(path, c.req.Effect)
	}
	a.Blast(c.res.Grids, c.req.Effect)
}

// damageAt returns the table damage at a blast distance.
func (c *call) damageAt(dist int) int {
	if dist < 0 || dist >= len(c.table) {
		return 0
	}
	return c.table[dist]
}

// byPlayer reports whether the player cast the projection.
func (c *call) byPlayer() bool { return c.req.Caster == cave.PlayerOccupant }

// area reports whether the projection is a spread rather than a bolt.
func (c *call) area() bool {
	return c.req.Radius > 0 || c.req.Flags.Has(FlagBeam) || c.req.Flags.Has(FlagArc)
}

// casterName names the source for death messages.
func (c *call) casterName() string {
	switch {
	case c.byPlayer():
		return "yourself"
	case c.req.Caster > 0:
		if m, ok := c.w.Monsters.Get(c.req.Caster); ok {
			return "a " + m.Name()
		}
	}
	return "a trap"
}
