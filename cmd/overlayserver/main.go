// Package main provides the overlay server binary: it wires the combat
// overlay's managers together and runs a local in-memory world simulation
// seeded from an encounter template.
package main

import (
	"context"
	"flag"
	"log"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/duskhollow/skirmish/internal/config"
	"github.com/duskhollow/skirmish/internal/game/combat"
	"github.com/duskhollow/skirmish/internal/game/dice"
	"github.com/duskhollow/skirmish/internal/game/encounter"
	"github.com/duskhollow/skirmish/internal/game/events"
	"github.com/duskhollow/skirmish/internal/game/hud"
	"github.com/duskhollow/skirmish/internal/game/movement"
	"github.com/duskhollow/skirmish/internal/game/targeting"
	"github.com/duskhollow/skirmish/internal/game/tick"
	"github.com/duskhollow/skirmish/internal/host"
	"github.com/duskhollow/skirmish/internal/observability"
	"github.com/duskhollow/skirmish/internal/scripting"
	"github.com/duskhollow/skirmish/internal/server"
	"github.com/duskhollow/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	encounterPath := flag.String("encounter", "content/encounters/skirmish.yaml", "encounter template to seed the simulation")
	worldID := flag.String("world", "arena", "world ID for the local simulation")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting overlay server",
		zap.String("world", *worldID),
		zap.Duration("turn_duration", cfg.Combat.TurnDuration),
	)

	src := dice.NewCryptoSource()
	world := host.NewMemoryWorld(*worldID)

	turns := combat.NewTurnManager(src, cfg.Combat.TurnDuration, logger)

	highlighter := targeting.NewHighlighter(cfg.Targeting.RefreshInterval, cfg.Targeting.LowHPThreshold, world)
	targets := targeting.NewManager(highlighter, world, logger)

	pathRenderer := movement.NewPathRenderer(cfg.Movement.RefreshInterval, world)
	moves := movement.NewManager(pathRenderer, world, cfg.Movement.SpeedBlocks, logger)

	combatHud := hud.NewCombatHud(world, cfg.Hud.MaxSlots)
	handler := events.NewCombatEventHandler(turns, moves, world, logger)

	// Visuals and per-player state are dropped the moment combat ends.
	turns.OnCombatEnd(func(endedWorld string) {
		if endedWorld != world.ID() {
			return
		}
		targets.ClearAllTargets()
		moves.ClearAll()
		combatHud.HideAll(world)
	})

	// Initialise scripting hooks.
	if cfg.Combat.ScriptDir != "" {
		scriptStart := time.Now()
		scriptMgr := scripting.NewManager(src, logger)
		if info, statErr := os.Stat(cfg.Combat.ScriptDir); statErr == nil && info.IsDir() {
			if err := scriptMgr.LoadWorld(*worldID, cfg.Combat.ScriptDir, cfg.Combat.ScriptInstructionLimit); err != nil {
				logger.Fatal("loading encounter scripts", zap.Error(err))
			}
		} else {
			logger.Fatal("combat.script_dir is not a directory", zap.String("dir", cfg.Combat.ScriptDir))
		}

		scriptMgr.GetParticipant = func(uid string) *scripting.ParticipantInfo {
			id, parseErr := uuid.Parse(uid)
			if parseErr != nil {
				return nil
			}
			state := turns.State(world.ID())
			if !state.Active() {
				return nil
			}
			ref, ok := world.PlayerRef(id)
			if !ok {
				// NPC participants are resolved by entity ID.
				ref = host.EntityRef{ID: id, Gen: 1}
			}
			snap, ok := world.Resolve(ref)
			if !ok {
				return nil
			}
			return &scripting.ParticipantInfo{
				UID:   uid,
				Name:  snap.Name,
				HP:    snap.CurrentHP,
				MaxHP: snap.MaxHP,
			}
		}
		scriptMgr.Broadcast = func(msg string) {
			for _, playerID := range world.Players() {
				world.Send(playerID, msg)
			}
		}
		turns.SetHooks(scripting.NewCombatHooks(scriptMgr))
		logger.Info("scripting engine initialized",
			zap.String("dir", cfg.Combat.ScriptDir),
			zap.Duration("elapsed", time.Since(scriptStart)),
		)
	}

	// Connect the encounter archive.
	if cfg.Combat.ArchiveEnabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		turns.SetArchiver(postgres.NewEncounterStore(pool.DB()))
		logger.Info("encounter archive connected",
			zap.String("host", cfg.Database.Host),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
	}

	// Periodic visual sweep.
	sweeper := tick.NewManager(cfg.Tick.SweepInterval)
	sweeper.Register(world.ID(), func() {
		targets.RefreshHighlights(world)
		moves.RefreshPaths(world)
	})

	// Seed the simulation from the encounter template.
	template, err := encounter.LoadFile(*encounterPath)
	if err != nil {
		logger.Fatal("loading encounter template", zap.Error(err))
	}
	participants := seedWorld(world, template)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("tick-sweeper", tickService(sweeper))
	lifecycle.Add("simulation", &server.FuncService{
		StartFn: func() error {
			state, err := turns.StartCombat(world.ID(), participants)
			if err != nil {
				return err
			}
			combatHud.ShowAll(world, state)
			demoMove(handler, world, state)
			logger.Info("encounter seeded",
				zap.String("encounter", template.ID),
				zap.Int("participants", len(participants)),
				zap.String("first_actor", state.CurrentActorName()),
			)
			return nil
		},
		StopFn: func() {
			turns.EndCombat(world.ID())
		},
	})

	logger.Info("overlay server ready", zap.Duration("startup", time.Since(start)))
	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
}

// seedWorld creates world entities for every participant in the template and
// returns the combat roster.
func seedWorld(world *host.MemoryWorld, t *encounter.Template) []combat.Participant {
	participants := make([]combat.Participant, 0, len(t.Participants))
	for i, p := range t.Participants {
		pos := host.Vec3{X: float64(i * 2), Y: 64, Z: 0}
		var id uuid.UUID
		kind := combat.KindNPC
		if p.Kind == "player" {
			id, _ = world.AddPlayer(p.Name, pos, p.MaxHP)
			kind = combat.KindPlayer
		} else {
			id = world.AddNPC(p.Name, pos, p.MaxHP).ID
		}
		participants = append(participants, combat.Participant{
			ID:            id,
			Kind:          kind,
			Name:          p.Name,
			InitiativeMod: p.InitiativeMod,
		})
	}
	return participants
}

// demoMove drives one grid move for the first actor through the event
// handler, the same left-click/right-click sequence a player produces in
// game. No-op when an NPC won initiative.
func demoMove(handler *events.CombatEventHandler, world *host.MemoryWorld, state *combat.CombatState) {
	actor, ok := state.CurrentActor()
	if !ok {
		return
	}
	ref, ok := world.PlayerRef(actor)
	if !ok {
		return
	}
	snap, ok := world.Resolve(ref)
	if !ok {
		return
	}
	dest := &host.BlockPos{
		X: int(math.Floor(snap.Position.X)) + 2,
		Y: int(math.Floor(snap.Position.Y)),
		Z: int(math.Floor(snap.Position.Z)) + 1,
	}
	handler.OnPlayerMouseButton(&host.MouseButtonEvent{
		PlayerID: actor, Button: host.MouseLeft, State: host.MouseReleased, TargetBlock: dest,
	}, world)
	handler.OnPlayerMouseButton(&host.MouseButtonEvent{
		PlayerID: actor, Button: host.MouseRight, State: host.MouseReleased, TargetBlock: dest,
	}, world)
}

// tickService adapts the sweep manager to the lifecycle Service contract.
func tickService(m *tick.Manager) *server.FuncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &server.FuncService{
		StartFn: func() error {
			m.Start(ctx)
			<-ctx.Done()
			return nil
		},
		StopFn: cancel,
	}
}
