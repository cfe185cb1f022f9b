// Comando migrate aplica o revierte las migraciones embebidas.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate steps -1
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/garantias-api/internal/infrastructure/postgres"
	"github.com/jhoicas/garantias-api/pkg/config"
	"github.com/jhoicas/garantias-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: migrate up|down|steps <n>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", App: cfg.App.Name})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("preparar migraciones")
	}
	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if len(os.Args) < 3 {
			log.Fatal().Msg("steps requiere un número (positivo = up, negativo = down)")
		}
		n, convErr := strconv.Atoi(os.Args[2])
		if convErr != nil {
			log.Fatal().Err(convErr).Msg("número de pasos inválido")
		}
		err = m.Steps(n)
	default:
		log.Fatal().Str("command", os.Args[1]).Msg("comando desconocido")
	}
	if closeErr := m.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("cerrar migrador")
	}
	if err != nil {
		log.Error().Err(err).Msg("migración fallida")
		os.Exit(1)
	}
}
