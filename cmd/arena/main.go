package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/persist"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(player, difficulty string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m                 ARENA v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       survive the horde, shoot back       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mplayer:\033[0m %s \033[90m(%s)\033[0m\n\n", player, difficulty)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main game logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Game.PlayerName, cfg.Game.Difficulty)

	// 3. Catalogs
	printSection("data")
	mobs, err := data.LoadMobTable(cfg.Data.MobsFile)
	if err != nil {
		return fmt.Errorf("load mob table: %w", err)
	}
	printStat("mob templates", mobs.Count())

	collectibles, err := data.LoadCollectibleTable(cfg.Data.CollectiblesFile)
	if err != nil {
		return fmt.Errorf("load collectible table: %w", err)
	}
	printStat("collectible templates", collectibles.Count())

	presets, err := data.LoadPresetTable(cfg.Data.PresetsFile)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}
	printStat("difficulty presets", presets.Count())

	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua formulas loaded")

	opts, err := buildOptions(cfg.Game, presets)
	if err != nil {
		return err
	}
	if cfg.Game.MapFile != "" {
		arena, err := data.LoadArena(cfg.Game.MapFile, cfg.Game.Width, cfg.Game.Height)
		if err != nil {
			return fmt.Errorf("load map: %w", err)
		}
		opts.Arena = arena
		printOK(fmt.Sprintf("map %s loaded", cfg.Game.MapFile))
	}
	fmt.Println()

	// 4. Leaderboard
	printSection("leaderboard")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	board, err := openLeaderboard(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("leaderboard: %w", err)
	}
	defer board.Close()
	printOK(fmt.Sprintf("backend %s", cfg.Leaderboard.Backend))
	fmt.Println()

	// 5. Game
	g, err := game.New(opts, game.Deps{
		Mobs:         mobs,
		Collectibles: collectibles,
		Formulas:     game.LuaFormulas{Engine: luaEngine},
		Log:          log,
	})
	if err != nil {
		return fmt.Errorf("new game: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	w, h := cfg.Game.Width, cfg.Game.Height
	if opts.Arena != nil {
		w, h = opts.Arena.Width(), opts.Arena.Height()
	}
	if err := tui.CheckSize(screen, w, h); err != nil {
		screen.Fini()
		return err
	}

	log.Info("game starting",
		zap.String("player", cfg.Game.PlayerName),
		zap.String("difficulty", cfg.Game.Difficulty),
		zap.Duration("tick", opts.TickRate))

	res, err := g.Run(ctx, tui.New(screen, cfg.Game.RedrawRate, log))
	screen.Fini()
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	// 6. Results
	printSection("game over")
	printReady(fmt.Sprintf("%s after %d ticks", res.Reason, res.Ticks))
	printStat("score", res.Score)
	printStat("kills", res.Stats.TotalKills())
	printStat("shots fired", res.Stats.ShotsFired)
	printStat("damage taken", res.Stats.DamageTaken)
	fmt.Println()

	return reportScore(context.Background(), board, cfg, res, log)
}

// loadConfig reads path, falling back to the built-in defaults when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildOptions applies the difficulty preset, then any explicit overrides
// from the [game] section.
func buildOptions(gc config.GameConfig, presets *data.PresetTable) (game.Options, error) {
	opts := game.DefaultOptions()

	preset := presets.Get(gc.Difficulty)
	if preset == nil {
		return opts, fmt.Errorf("unknown difficulty %q (have %s)", gc.Difficulty, strings.Join(presets.Names(), ", "))
	}
	opts.PlayerHP = preset.PlayerHP
	opts.MobKinds = preset.MobKinds
	opts.MaxMobs = preset.MaxMobs
	opts.MobSpawnInterval = preset.MobSpawnInterval

	if gc.PlayerHP > 0 {
		opts.PlayerHP = gc.PlayerHP
	}
	if len(gc.MobTypes) > 0 {
		kinds, err := data.ParseMobKinds(gc.MobTypes)
		if err != nil {
			return opts, fmt.Errorf("game.mob_types: %w", err)
		}
		opts.MobKinds = kinds
	}
	if gc.MaxMobs > 0 {
		opts.MaxMobs = gc.MaxMobs
	}
	if gc.MobSpawnInterval > 0 {
		opts.MobSpawnInterval = gc.MobSpawnInterval
	}

	opts.Width, opts.Height = gc.Width, gc.Height
	opts.TickRate = gc.TickRate
	opts.MaxCollectibles = gc.MaxCollectibles
	opts.ShootCooldown = gc.ShootCooldown
	opts.PlayerDamage = gc.BulletDamage
	opts.BulletLifetime = gc.BulletLifetime
	opts.BulletTicksPerMove = gc.BulletSpeed
	opts.Seed = gc.Seed

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func openLeaderboard(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Leaderboard, error) {
	switch cfg.Leaderboard.Backend {
	case "file":
		return persist.OpenFileLeaderboard(cfg.Leaderboard.File, log)
	case "postgres":
		dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		db, err := persist.OpenDB(dbCtx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		repo, err := persist.OpenPostgresLeaderboard(dbCtx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return repo, nil
	}
	return persist.Nop{}, nil
}

// reportScore records the finished game and prints the standings.
func reportScore(ctx context.Context, board persist.Leaderboard, cfg *config.Config, res game.Result, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rank, err := board.Submit(ctx, persist.Entry{
		Name:   cfg.Game.PlayerName,
		Time:   time.Now(),
		Score:  res.Score,
		Reason: int(res.Reason),
		Ticks:  res.Ticks,
	})
	if err != nil {
		return fmt.Errorf("submit score: %w", err)
	}
	if rank < 0 || cfg.Leaderboard.Show <= 0 {
		return nil
	}

	top, err := board.Top(ctx, cfg.Leaderboard.Show)
	if err != nil {
		return fmt.Errorf("read leaderboard: %w", err)
	}
	printSection("leaderboard")
	for i, e := range top {
		marker := " "
		if i == rank {
			marker = "\033[32m▶\033[0m"
		}
		fmt.Printf("  %s %2d. %-16s %6d  \033[90m%s\033[0m\n", marker, i+1, e.Name, e.Score, e.Time.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	log.Info("score recorded", zap.Int("rank", rank), zap.Int("score", res.Score))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
