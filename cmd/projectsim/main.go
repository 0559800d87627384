// Package main provides projectsim, a command-line harness that loads an
// arena and its content, fires one projection and prints what it did.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellcast/internal/config"
	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
	"github.com/cory-johannsen/spellcast/internal/game/dice"
	"github.com/cory-johannsen/spellcast/internal/game/effect"
	"github.com/cory-johannsen/spellcast/internal/game/monster"
	"github.com/cory-johannsen/spellcast/internal/game/object"
	"github.com/cory-johannsen/spellcast/internal/game/player"
	"github.com/cory-johannsen/spellcast/internal/game/world"
	"github.com/cory-johannsen/spellcast/internal/observability"
	"github.com/cory-johannsen/spellcast/internal/project"
	"github.com/cory-johannsen/spellcast/internal/scripting"
)

// options are the parsed command-line flags.
type options struct {
	arena    string
	caster   string
	origin   string
	target   string
	effect   string
	flags    string
	radius   int
	damage   int
	degrees  int
	diameter int
}

func main() {
	configPath := flag.String("config", "configs/projectsim.yaml", "path to configuration file; empty = defaults")
	var opts options
	flag.StringVar(&opts.arena, "arena", "content/arenas/crossroads.yaml", "path to arena YAML file")
	flag.StringVar(&opts.caster, "caster", "player", `who fires: "player", "none" or a monster id`)
	flag.StringVar(&opts.origin, "origin", "", "y,x start for a sourceless projection")
	flag.StringVar(&opts.target, "target", "", "y,x target grid")
	flag.StringVar(&opts.effect, "effect", "fire", "effect type name")
	flag.StringVar(&opts.flags, "flags", "grid,item,kill,player", "comma-separated projection flags")
	flag.IntVar(&opts.radius, "radius", 0, "blast radius")
	flag.IntVar(&opts.damage, "damage", 20, "base damage")
	flag.IntVar(&opts.degrees, "arc", 0, "arc width in degrees")
	flag.IntVar(&opts.diameter, "source-diameter", 0, "source diameter for flattened falloff")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "projectsim")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, opts, logger, os.Stdout); err != nil {
		logger.Fatal("projectsim", zap.Error(err))
	}
}

// run loads everything cfg and opts name, fires the projection and writes
// the report to out.
func run(cfg config.Config, opts options, logger *zap.Logger, out io.Writer) error {
	start := time.Now()

	var src dice.Source
	if cfg.Engine.Seed != 0 {
		src = dice.NewSeededSource(cfg.Engine.Seed)
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewLoggedRoller(src, logger)

	content, err := loadContent(cfg.Content)
	if err != nil {
		return err
	}
	w, err := world.LoadArenaFromFile(opts.arena, content, roller)
	if err != nil {
		return fmt.Errorf("loading arena: %w", err)
	}
	logger.Info("arena loaded",
		zap.String("arena", w.Name),
		zap.Int("monsters", w.Monsters.Len()),
		zap.Int("objects", w.Objects.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	req, err := buildRequest(opts)
	if err != nil {
		return err
	}

	var said []string
	engineOpts := project.Options{
		MaxRange:      cfg.Engine.MaxRange,
		MaxGrids:      cfg.Engine.MaxGrids,
		ArcMaxRadius:  cfg.Engine.ArcMaxRadius,
		TeleportTries: cfg.Engine.TeleportTries,
		Deaths:        &deathLog{logger: logger},
	}
	if cfg.Content.Scripts != "" {
		mgr := scripting.NewManager(roller, logger)
		defer mgr.Close()
		mgr.Say = func(msg string) { said = append(said, msg) }
		mgr.QuestDone = func(raceID string) bool { return w.Quests[raceID] }
		if err := mgr.Load(cfg.Content.Scripts, cfg.Content.InstructionLimit); err != nil {
			return err
		}
		engineOpts.Hooks = mgr
	}

	fmt.Fprintf(out, "== %s before ==\n%s", w.Name, w.Render(nil))

	e := project.NewEngine(w, roller, logger, engineOpts)
	res := e.Resolve(req)

	mark := make(map[cave.Loc]bool, len(res.Grids))
	for _, g := range res.Grids {
		mark[g.Loc] = true
	}
	fmt.Fprintf(out, "\n== %s (%d grids) ==\n%s", req.Effect, len(res.Grids), w.Render(mark))
	fmt.Fprintf(out, "\n== after ==\n%s", w.Render(nil))
	writeReport(out, res, said)
	writeSurvivors(out, w)
	return nil
}

// loadContent reads the race, object and condition registries.
func loadContent(cc config.ContentConfig) (world.Content, error) {
	races, err := monster.LoadRaces(cc.Races)
	if err != nil {
		return world.Content{}, fmt.Errorf("loading races: %w", err)
	}
	kinds, err := object.LoadKinds(cc.Objects)
	if err != nil {
		return world.Content{}, fmt.Errorf("loading objects: %w", err)
	}
	conds := condition.Defaults()
	if cc.Conditions != "" {
		if conds, err = condition.LoadDirectory(cc.Conditions); err != nil {
			return world.Content{}, fmt.Errorf("loading conditions: %w", err)
		}
	}
	return world.Content{Races: races, Kinds: kinds, Conditions: conds}, nil
}

// buildRequest turns the command-line options into a projection request.
func buildRequest(opts options) (project.Request, error) {
	eff, err := effect.Parse(opts.effect)
	if err != nil {
		return project.Request{}, err
	}
	flags, unknown := project.ParseFlags(splitList(opts.flags))
	if len(unknown) > 0 {
		return project.Request{}, fmt.Errorf("unknown flags %v", unknown)
	}
	if opts.target == "" {
		return project.Request{}, errors.New("-target is required")
	}
	target, err := parseLoc(opts.target)
	if err != nil {
		return project.Request{}, fmt.Errorf("-target: %w", err)
	}

	req := project.Request{
		Target:         target,
		Radius:         opts.radius,
		Damage:         opts.damage,
		Effect:         eff,
		Flags:          flags,
		ArcDegrees:     opts.degrees,
		SourceDiameter: opts.diameter,
	}
	switch opts.caster {
	case "player":
		req.Caster = cave.PlayerOccupant
	case "none":
		req.Caster = cave.NoOccupant
		if opts.origin == "" {
			return project.Request{}, errors.New("-origin is required for a sourceless projection")
		}
		if req.Origin, err = parseLoc(opts.origin); err != nil {
			return project.Request{}, fmt.Errorf("-origin: %w", err)
		}
	default:
		id, err := strconv.Atoi(opts.caster)
		if err != nil || id <= 0 {
			return project.Request{}, fmt.Errorf("-caster must be player, none or a monster id, got %q", opts.caster)
		}
		req.Caster = id
	}
	return req, nil
}

// parseLoc reads a "y,x" pair.
func parseLoc(s string) (cave.Loc, error) {
	ys, xs, ok := strings.Cut(s, ",")
	if !ok {
		return cave.Loc{}, fmt.Errorf("location %q must be y,x", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return cave.Loc{}, fmt.Errorf("location %q: %w", s, err)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return cave.Loc{}, fmt.Errorf("location %q: %w", s, err)
	}
	return cave.L(y, x), nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeReport(out io.Writer, res project.Result, said []string) {
	fmt.Fprintf(out, "\ndamage by distance: %v\n", trimTable(res.Table))
	for _, m := range res.Messages {
		fmt.Fprintln(out, m)
	}
	for _, m := range said {
		fmt.Fprintln(out, m)
	}
	if res.Gold > 0 {
		fmt.Fprintf(out, "gold dropped: %d\n", res.Gold)
	}
	for _, l := range res.TriggeredTraps {
		fmt.Fprintf(out, "trap set off at %s\n", l)
	}
	fmt.Fprintf(out, "obvious: %t, killed: %d, deferred: %d/%d\n",
		res.Obvious, len(res.Killed), res.Deferred, res.Marked)
}

// writeSurvivors lists the monsters still standing.
func writeSurvivors(out io.Writer, w *world.World) {
	fmt.Fprintf(out, "\n== survivors ==\n")
	for _, m := range w.Monsters.All() {
		fmt.Fprintf(out, "%-24s %-8s %-18s speed %d\n", m.Name(), m.Loc, m.HealthDescription(), m.Speed())
	}
}

// trimTable drops the trailing zero entries of a damage table.
func trimTable(tbl []int) []int {
	n := len(tbl)
	for n > 1 && tbl[n-1] == 0 {
		n--
	}
	return tbl[:n]
}

// deathLog reports deaths through the logger.
type deathLog struct {
	logger *zap.Logger
}

func (d *deathLog) MonsterDied(m *monster.Monster, byPlayer bool) {
	d.logger.Info("monster died",
		zap.String("race", m.Race.ID),
		zap.Stringer("at", m.Loc),
		zap.Bool("by_player", byPlayer),
	)
}

func (d *deathLog) PlayerDied(p *player.Player, killer string) {
	d.logger.Warn("player died", zap.String("name", p.Name), zap.String("killer", killer))
}
