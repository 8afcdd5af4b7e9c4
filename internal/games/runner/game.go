// Package runner implements the endless side scroller on top of the
// segment stream. The player stays near a fixed X and jumps over gaps and
// obstacles while the level scrolls past and collects coins on the way.
package runner

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/deliciousfudge/2d-side-scroller/internal/config"
	"github.com/deliciousfudge/2d-side-scroller/internal/core"
	"github.com/deliciousfudge/2d-side-scroller/internal/registry"
	"github.com/deliciousfudge/2d-side-scroller/internal/stream"
)

// Collision sizes of decorations in world units.
const (
	CoinSize     = 0.6
	ObstacleW    = 1.0
	ObstacleH    = 1.0
	attractDelay = 90 // Ticks the attract game waits on the game over screen
)

type phase int

const (
	phaseInstructions phase = iota
	phasePlaying
	phaseDead
)

// Stats summarises a run for persistence and reporting.
type Stats struct {
	Ticks     int
	Coins     int
	BestCoins int
	Deaths    int
	Respawns  int
	Spawned   int
	Recycled  int
	Exhausted int
}

// Game implements the side scroller game logic.
type Game struct {
	id         string
	title      string
	autopilot  bool
	runtime    core.RuntimeConfig
	cfg        config.ScrollerConfig
	streamCfg  stream.Config
	stream     *stream.Controller
	player     *Player
	difficulty *config.DifficultyManager
	phase      phase
	paused     bool
	coins      int
	tickCount  int
	deadTicks  int
	stats      Stats
	err        error
	logger     *log.Logger
}

// Host settings stored by the CLI before games are created.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.New(io.Discard)
	observer         stream.Observer
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// SetLogger sets the logger handed to new streams.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// SetObserver registers an observer attached to new streams.
func SetObserver(o stream.Observer) {
	observer = o
}

// New creates a player-controlled game.
func New() *Game {
	return &Game{id: "runner", title: "Side Scroller"}
}

// NewAttract creates a game that plays itself.
func NewAttract() *Game {
	return &Game{id: "attract", title: "Side Scroller (Attract)", autopilot: true}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset builds a fresh stream and player from configuration.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.Close()
	g.runtime = runtime
	g.logger = logger

	cfg, sc := loadConfig(g.logger)
	g.cfg = cfg
	g.streamCfg = sc
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	g.phase = phaseInstructions
	if g.autopilot {
		g.phase = phasePlaying
	}
	g.paused = false
	g.coins = 0
	g.tickCount = 0
	g.deadTicks = 0
	g.stats = Stats{}
	g.err = nil

	opts := []stream.Option{stream.WithLogger(g.logger), stream.WithObserver(observer)}
	sctl, err := stream.New(sc, rand.New(rand.NewSource(runtime.Seed)), opts...)
	if err != nil {
		g.fail(err)
		return
	}
	g.stream = sctl
	g.player = newPlayer(cfg.Player, sc.SpawnHeight)
}

// Close releases the active segments of the current stream so observers see
// them leave. The game has no stream until the next Reset. Safe to call more
// than once.
func (g *Game) Close() {
	if g.stream == nil {
		return
	}
	if err := g.stream.Resets().DisableAll(); err != nil {
		g.logger.Error("stream teardown failed", "game", g.id, "err", err)
	}
	g.stream = nil
}

// loadConfig loads the scroller config and converts it for the stream,
// falling back to the hardcoded defaults when the loaded file is invalid.
func loadConfig(l *log.Logger) (config.ScrollerConfig, stream.Config) {
	cfg, err := config.LoadScroller(configPath)
	if err != nil {
		l.Warn("using default config", "err", err)
		cfg = config.DefaultScrollerConfig()
	}
	config.ApplyEnv(&cfg)
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}

	sc, err := cfg.ToStream()
	if err != nil {
		l.Warn("invalid config, using defaults", "err", err)
		cfg = config.DefaultScrollerConfig()
		config.ApplyPreset(&cfg, difficultyPreset)
		if sc, err = cfg.ToStream(); err != nil {
			// stream.New reports the same error and fails the game
			l.Error("default config rejected", "err", err)
		}
	}
	return cfg, sc
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.stream == nil {
		return core.StepResult{State: g.State()}
	}

	switch g.phase {
	case phaseInstructions:
		if in.Has(core.ActionJump) || in.Has(core.ActionConfirm) {
			g.phase = phasePlaying
			g.player.Jump()
		}
	case phasePlaying:
		if in.Has(core.ActionPause) {
			g.paused = !g.paused
		}
		if !g.paused {
			g.play(in)
		}
	case phaseDead:
		g.deadTicks++
		restart := in.Has(core.ActionRestart)
		if g.autopilot && g.deadTicks >= attractDelay {
			restart = true
		}
		if restart && g.err == nil {
			g.respawn()
		}
		// Drains the kill or respawn event
		g.tick(0)
	}

	return core.StepResult{State: g.State()}
}

// play runs one tick of the stream and the player.
func (g *Game) play(in core.InputFrame) {
	g.tickCount++
	g.stats.Ticks++

	if g.autopilot {
		if g.shouldJump() {
			g.player.Jump()
		}
	} else if in.Has(core.ActionJump) {
		g.player.Jump()
	}

	base := g.streamCfg.MovementSpeed
	g.stream.SetSpeed(g.difficulty.Speed(base, g.coins, g.tickCount))

	dt := g.runtime.TickSeconds()
	if !g.tick(dt) {
		return
	}

	surface := g.streamCfg.SpawnHeight
	g.player.update(dt, g.stream.Speed()*dt, surface, g.stream)

	switch {
	case g.player.Y < surface-g.cfg.Player.DeathDepth:
		g.kill("fell")
	case g.player.X < g.streamCfg.ScreenLeftBound:
		g.kill("crushed")
	default:
		g.collide()
	}
}

// tick advances the stream and records the outcome. It returns false if
// the stream reported a bookkeeping error.
func (g *Game) tick(dt float64) bool {
	res, err := g.stream.Tick(dt)
	if err != nil {
		g.fail(err)
		return false
	}
	if res.Spawned != stream.NoSegment {
		g.stats.Spawned++
	}
	if res.Recycled != stream.NoSegment {
		g.stats.Recycled++
	}
	if res.Exhausted {
		g.stats.Exhausted++
	}
	return true
}

// collide checks the player against every visible slot of the active
// segments. Coins are collected; obstacles kill.
func (g *Game) collide() {
	pb := g.player.Box()
	for _, seg := range g.stream.Active() {
		if seg.EndEdge() < pb.MinX-ObstacleW || seg.StartEdge() > pb.MaxX+ObstacleW {
			continue
		}
		for i := 0; i < seg.SlotCount(); i++ {
			sl := seg.Slot(i)
			if !sl.Visible {
				continue
			}
			if !pb.Overlaps(slotBox(seg, i)) {
				continue
			}
			switch sl.Kind {
			case stream.SlotCoin:
				seg.HideSlot(i)
				g.coins++
				if g.coins > g.stats.BestCoins {
					g.stats.BestCoins = g.coins
				}
			case stream.SlotObstacle:
				g.kill("obstacle")
				return
			}
		}
	}
}

// slotBox returns the collision box of slot i.
func slotBox(seg *stream.Segment, i int) core.Box {
	if seg.Slot(i).Kind == stream.SlotCoin {
		return core.BoxAt(seg.SlotX(i), seg.SlotY(i), CoinSize, CoinSize)
	}
	return core.BoxAt(seg.SlotX(i), seg.SlotY(i), ObstacleW, ObstacleH)
}

// kill ends the run and tells the stream to clear itself.
func (g *Game) kill(cause string) {
	g.phase = phaseDead
	g.deadTicks = 0
	g.stats.Deaths++
	g.stream.Notify(stream.PlayerKilled{})
	g.logger.Info("player killed", "game", g.id, "cause", cause, "coins", g.coins, "tick", g.tickCount)
}

// respawn puts the player back at the start and asks the stream to rebuild
// the starting segment.
func (g *Game) respawn() {
	g.stream.Notify(stream.PlayerRespawned{})
	g.player = newPlayer(g.cfg.Player, g.streamCfg.SpawnHeight)
	g.coins = 0
	g.tickCount = 0
	g.stats.Respawns++
	g.phase = phasePlaying
	g.logger.Info("player respawned", "game", g.id)
}

// fail stops the game after a stream error.
func (g *Game) fail(err error) {
	g.err = err
	g.phase = phaseDead
	g.logger.Error("stream failed", "game", g.id, "err", err)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.coins,
		GameOver: g.phase == phaseDead,
		Paused:   g.paused,
	}
}

// Stats returns counters for the run so far.
func (g *Game) Stats() Stats {
	s := g.stats
	s.Coins = g.coins
	return s
}

// Err returns the stream error that stopped the game, if any.
func (g *Game) Err() error { return g.err }

// Stream exposes the segment stream for inspection.
func (g *Game) Stream() *stream.Controller { return g.stream }

// Player exposes the player for inspection.
func (g *Game) Player() *Player { return g.player }

// Register both variants with the registry
func init() {
	registry.Register("runner", func() registry.Game {
		return New()
	})
	registry.Register("attract", func() registry.Game {
		return NewAttract()
	})
}
