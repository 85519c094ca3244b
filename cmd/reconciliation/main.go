// cmd/reconciliation/main.go
package main

import (
	"log"
	"net/http"

	"reconciliation-service/internal/api/handlers"
	"reconciliation-service/internal/api/responses"
	"reconciliation-service/internal/config"
	"reconciliation-service/internal/core/export"
	"reconciliation-service/internal/core/reconciliation"
	"reconciliation-service/internal/core/spreadsheet"
	"reconciliation-service/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Falha ao carregar configuração: ", err)
	}

	logger, err := responses.InitLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal("Falha ao iniciar logger: ", err)
	}
	defer logger.Sync()

	var opts []reconciliation.Option
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		opts = append(opts, reconciliation.WithRecorder(recorder))
	}

	reconciliationService := reconciliation.NewService(logger, opts...)
	reconciliationHandler := handlers.NewReconciliationHandler(
		reconciliationService,
		spreadsheet.NewReader(logger),
		export.NewWriter(logger),
		logger,
		cfg.Upload.MaxBytes(),
	)

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	router.MaxMultipartMemory = cfg.Upload.MaxBytes()

	apiV1 := router.Group("/api/v1")
	{
		// Sem Middleware -- Gateway lida com isso
		apiV1.POST("/validate/:variant", reconciliationHandler.HandleValidate)
		apiV1.POST("/validate/:variant/report", reconciliationHandler.HandleReport)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": "reconciliation-service"})
	})

	if recorder != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(recorder.Handler()))
	}

	logger.Info("Servidor configurado",
		zap.String("mode", cfg.Server.Mode),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Int64("max_upload_bytes", cfg.Upload.MaxBytes()))

	log.Printf("🚀 Reconciliation Service (Go) iniciado e escutando na porta %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de validação: ", err)
	}
}
