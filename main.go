// main.go
//
// Entry point for the BrainBurst play server.
// Startup order: config, logging, SQLite + migrations, game registry,
// daily puzzle import, hint service, HTTP server.

package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/brainburst/apps/go-server/assets"
	"github.com/robalobadob/brainburst/apps/go-server/internal/config"
	"github.com/robalobadob/brainburst/apps/go-server/internal/daily"
	"github.com/robalobadob/brainburst/apps/go-server/internal/game"
	"github.com/robalobadob/brainburst/apps/go-server/internal/games"
	"github.com/robalobadob/brainburst/apps/go-server/internal/hints"
	"github.com/robalobadob/brainburst/apps/go-server/internal/httpserver"
	"github.com/robalobadob/brainburst/apps/go-server/internal/session"
	"github.com/robalobadob/brainburst/apps/go-server/internal/store"
	"github.com/robalobadob/brainburst/apps/go-server/internal/zip"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Local() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	db, err := daily.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := daily.Migrate(db, assets.FS, assets.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	reg, err := games.NewRegistry(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("register games")
	}
	results := daily.NewStore(db)
	if cfg.PuzzlesDir != "" {
		n, err := results.ImportPuzzles(context.Background(), os.DirFS(cfg.PuzzlesDir), func(doc game.Document) error {
			_, err := session.New(reg, doc, "", nil)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.PuzzlesDir).Msg("import puzzles")
		}
		log.Info().Int("added", n).Str("dir", cfg.PuzzlesDir).Msg("daily puzzles imported")
	}
	hs, err := hints.New(zip.NewSolver(zip.SolverOptions{}), cfg.HintCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("hint service")
	}
	defer hs.Close()

	srv := httpserver.New(reg, store.NewMemoryStore(), hs, results, httpserver.Options{
		JWTSecret:    cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       !cfg.Local(),
	})
	log.Info().Str("port", cfg.Port).Interface("games", reg.Types()).Msg("starting go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
	}
}
