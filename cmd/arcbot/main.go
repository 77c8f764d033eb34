// Package main provides the arcbot CLI, which loads a board scenario and
// prints the action the bot would take for one character's turn.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arcbot/internal/config"
	"github.com/cory-johannsen/arcbot/internal/game/ai"
	"github.com/cory-johannsen/arcbot/internal/game/world"
	"github.com/cory-johannsen/arcbot/internal/observability"
	"github.com/cory-johannsen/arcbot/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/default.yaml", "path to configuration file")
	scenarioPath := flag.String("scenario", "content/scenarios/ridge.yaml", "path to scenario YAML file")
	shooterName := flag.String("shooter", "", "name of the character taking the turn (required)")
	scriptDir := flag.String("scripts", "", "Lua hook directory; overrides scripting.dir when set")
	flag.Parse()

	if *shooterName == "" {
		fmt.Fprintln(os.Stderr, "usage: arcbot -shooter <name> [-config <file>] [-scenario <file>] [-scripts <dir>]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *scriptDir != "" {
		cfg.Scripting.Dir = *scriptDir
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	scenario, err := world.LoadScenarioFromFile(*scenarioPath)
	if err != nil {
		logger.Fatal("loading scenario", zap.String("path", *scenarioPath), zap.Error(err))
	}
	if scenario.TileSize != cfg.Ballistics.TileSize {
		logger.Fatal("scenario tile size does not match configuration",
			zap.Float64("scenario", scenario.TileSize),
			zap.Float64("config", cfg.Ballistics.TileSize),
		)
	}
	shooter := scenario.Board.FindCharacter(*shooterName)
	if shooter == nil {
		logger.Fatal("unknown shooter", zap.String("shooter", *shooterName), zap.String("scenario", scenario.Name))
	}
	if !shooter.Alive {
		logger.Fatal("shooter is not alive", zap.String("shooter", shooter.Name))
	}

	// Scripting is optional; a nil ScriptCaller disables vetoes.
	var hooks ai.ScriptCaller
	if cfg.Scripting.Dir != "" {
		scriptMgr := scripting.NewManager(logger)
		defer scriptMgr.Close()
		if err := scriptMgr.LoadProfile(cfg.Scripting.Profile, cfg.Scripting.Dir, cfg.Scripting.InstructionLimit); err != nil {
			logger.Fatal("loading scripts", zap.String("dir", cfg.Scripting.Dir), zap.Error(err))
		}
		hooks = scriptMgr
	}

	selector := ai.NewSelector(cfg, hooks, logger)
	optimizer := ai.NewOptimizer(cfg, logger)
	decider := ai.NewDecider(cfg, selector, optimizer, logger)

	logger.Info("deciding turn",
		zap.String("scenario", scenario.Name),
		zap.String("shooter", shooter.Name),
		zap.Int("health", shooter.Health),
		zap.Stringer("pos", shooter.Pos),
	)

	rec := &ai.Recorder{}
	dec := decider.ExecuteTurn(scenario.Board, shooter, rec)

	if !dec.HasPlan {
		fmt.Fprintf(os.Stdout, "%s: no action [%s]\n", shooter.Name, time.Since(start).Round(time.Millisecond))
		return
	}
	fmt.Fprintf(os.Stdout, "%s -> %s at %s (obstructions=%d)\n",
		shooter.Name, dec.Target.Kind(), dec.Target.Position(), dec.Plan.Obstructions)
	for _, a := range rec.Actions {
		fmt.Fprintf(os.Stdout, "  %s\n", a)
	}
	fmt.Fprintf(os.Stdout, "decided in %s\n", time.Since(start).Round(time.Millisecond))
}
