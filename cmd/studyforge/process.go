package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/api"
	"github.com/studyforge/studyforge/internal/classify"
	"github.com/studyforge/studyforge/internal/cleanup"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/extract"
	"github.com/studyforge/studyforge/internal/genai"
	"github.com/studyforge/studyforge/internal/orchestrator"
	"github.com/studyforge/studyforge/internal/pipeline"
	"github.com/studyforge/studyforge/internal/router"
	"github.com/studyforge/studyforge/internal/storage"
	"github.com/studyforge/studyforge/internal/telemetry"
	"github.com/studyforge/studyforge/internal/topics"
)

var (
	processDocumentID string
	processUserID     string
	processBatchID    string
)

var processCmd = &cobra.Command{
	Use:   "process <pdf-file>",
	Short: "Run a PDF through the full ingestion pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		logger := slog.Default()

		client := genai.NewHTTPClient(genai.HTTPConfig{
			APIKey:  cfg.ResolveAPIKey(),
			BaseURL: cfg.BaseURL,
		})

		sink := telemetry.NewSink(telemetry.SinkConfig{
			Store:     telemetry.NewFileStore(cfg.Telemetry.Path),
			QueueSize: cfg.Telemetry.QueueSize,
			Logger:    logger,
		})
		sink.Start(cmd.Context())
		defer sink.Stop()

		orch := orchestrator.New(orchestrator.Config{
			Client: client,
			Router: router.New(cfg.Models),
			Sink:   sink,
			Logger: logger,
		})

		store := storage.NewMemoryStore()
		pipe := pipeline.New(pipeline.Config{
			Extractor:  extract.New(orch, logger),
			Classifier: classify.NewBatchClassifier(orch, logger),
			Cleaner: cleanup.New(cleanup.Options{
				MinEnglishRatio: cfg.Cleanup.MinEnglishRatio,
				Detector:        cleanup.NewEnglishDetector(),
				Logger:          logger,
			}),
			Topics:      topics.New(orch, logger),
			Orch:        orch,
			Store:       store,
			Restructure: cfg.Cleanup.Restructure,
			Logger:      logger,
		})

		result, err := pipe.Process(cmd.Context(), pipeline.Request{
			DocumentID: processDocumentID,
			UserID:     processUserID,
			BatchID:    processBatchID,
			FilePath:   args[0],
		})
		if err != nil {
			return err
		}
		return api.Print(result)
	},
}

func init() {
	processCmd.Flags().StringVar(&processDocumentID, "document-id", "", "document id (generated when empty)")
	processCmd.Flags().StringVar(&processUserID, "user", "", "user id for telemetry attribution")
	processCmd.Flags().StringVar(&processBatchID, "batch", "", "batch id")
}
