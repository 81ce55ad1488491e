// Stachio Watchdog bot entrypoint. Wires config, logging, database,
// MQTT, the web API and the Discord client together, then blocks until
// an OS signal arrives.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MilkshakeCollective/StachioGo/internal/commands"
	"github.com/MilkshakeCollective/StachioGo/internal/events"
	"github.com/MilkshakeCollective/StachioGo/pkg/config"
	"github.com/MilkshakeCollective/StachioGo/pkg/database"
	"github.com/MilkshakeCollective/StachioGo/pkg/discord"
	"github.com/MilkshakeCollective/StachioGo/pkg/errors"
	"github.com/MilkshakeCollective/StachioGo/pkg/logger"
	"github.com/MilkshakeCollective/StachioGo/pkg/mqtt"
	"github.com/MilkshakeCollective/StachioGo/pkg/watchdog"
	"github.com/MilkshakeCollective/StachioGo/pkg/web"
)

func main() {
	// ============================================
	// 1. Cargar configuración
	// ============================================
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Error cargando configuración: %v\n", err)
		os.Exit(1)
	}

	// ============================================
	// 2. Inicializar logger
	// ============================================
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("🛡️ Iniciando Stachio Watchdog...", "Main")
	logger.Info(fmt.Sprintf("📂 Directorio de trabajo: %s", getCurrentDir()), "Main")
	logger.Info(fmt.Sprintf("🌍 Entorno: %s", cfg.Environment), "Main")

	// ============================================
	// 3. Inicializar manejador de errores
	// ============================================
	var discordClient *discord.ExtendedClient
	errorHandler := errors.Init(cfg.ErrorWebhook, func() {
		logger.Critical("🔴 Límite de errores alcanzado, apagando el bot...", "Main")
		if discordClient != nil {
			discordClient.Stop()
		}
		os.Exit(1)
	})
	defer errorHandler.Stop()

	// ============================================
	// 4. Conectar a MongoDB
	// ============================================
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Critical(fmt.Sprintf("❌ Error conectando a MongoDB: %v", err), "Main")
		os.Exit(1)
	}
	defer db.Disconnect()

	blacklistStore := database.NewBlacklistStore(db)
	configStore := database.NewWatchdogStore(db)

	// ============================================
	// 5. Conectar a MQTT
	// ============================================
	mqttClientID := "stachio"
	if !cfg.IsProd() {
		mqttClientID = "stachio_canary"
	}
	mqttClient := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)
	if mqttClient != nil {
		defer mqttClient.Destroy()
	}
	mqttSink := mqtt.NewEnforcementSink(mqttClient)

	// ============================================
	// 6. Iniciar servidor web
	// ============================================
	webServer := web.Init(cfg.LogsWebhook)
	feed := web.NewFeed()
	web.SetupAPIRoutes(webServer, web.RouteDeps{
		Blacklist: blacklistStore,
		Configs:   configStore,
	}, feed)
	webServer.StartAsync(cfg.Port)

	// ============================================
	// 7. Crear cliente de Discord
	// ============================================
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("❌ Error creando cliente de Discord: %v", err), "Main")
		os.Exit(1)
	}

	// ============================================
	// 8. Montar el motor watchdog
	// ============================================
	platform := discord.NewPlatform(discordClient.Session)
	executor := watchdog.NewExecutor(blacklistStore, configStore, platform, mqttSink, feed)
	scanner := watchdog.NewScanner(blacklistStore, executor, platform, watchdog.ScannerOptions{
		BatchSize:  cfg.ScanBatchSize,
		Delay:      time.Duration(cfg.ScanDelayMs) * time.Millisecond,
		MaxMembers: watchdog.DefaultScannerOptions().MaxMembers,
	})

	sweeper := watchdog.NewSweeper(blacklistStore, time.Duration(cfg.SweepIntervalMin)*time.Minute)
	sweeper.Start()
	defer sweeper.Stop()

	// ============================================
	// 9. Registrar comandos y eventos
	// ============================================
	commands.RegisterAll(discordClient, commands.Deps{
		Blacklist: blacklistStore,
		Configs:   configStore,
		Executor:  executor,
		Scanner:   scanner,
	})
	events.RegisterAll(discordClient, executor)

	// ============================================
	// 10. Conectar a Discord
	// ============================================
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("❌ Error conectando a Discord: %v", err), "Main")
		os.Exit(1)
	}
	defer discordClient.Stop()

	logger.Success("✅ Stachio está en línea y protegiendo", "Main")

	// ============================================
	// 11. Esperar señal de apagado
	// ============================================
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.System("👋 Señal recibida, apagando Stachio...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
