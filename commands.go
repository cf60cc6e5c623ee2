package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aashish23092/ocr-financial-ratios/client"
	"github.com/Aashish23092/ocr-financial-ratios/config"
	"github.com/Aashish23092/ocr-financial-ratios/dto"
	"github.com/Aashish23092/ocr-financial-ratios/handler"
	"github.com/Aashish23092/ocr-financial-ratios/service"
	"github.com/Aashish23092/ocr-financial-ratios/storage"
	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

// buildService wires the pipeline from cfg. The caller owns store.
func buildService(cfg *config.Config, store storage.ResultStore) *service.StatementService {
	tesseractClient := client.NewTesseractClient(cfg.OCR.TessdataPrefix, cfg.OCR.Language)

	var tables service.TableRecognizer
	if cfg.OCR.TableEndpoint != "" {
		tables = client.NewTableOCRClient(cfg.OCR.TableEndpoint, cfg.OCR.TableModel, cfg.OCRTimeout())
		log.Info().Str("endpoint", cfg.OCR.TableEndpoint).Str("model", cfg.OCR.TableModel).Msg("table OCR enabled")
	}

	engine := service.NewRatioEngine(service.MergeThresholds(service.DefaultThresholds(), cfg.Thresholds))

	return service.NewStatementService(
		service.NewPDFProcessor(),
		tesseractClient,
		tables,
		store,
		engine,
		service.ExtractionConfig{
			MinTextQuality:     cfg.Extraction.MinTextQuality,
			Workers:            cfg.Extraction.Workers,
			MinPlausibleValues: cfg.Extraction.MinPlausibleValues,
		},
	)
}

func openStore(cfg *config.Config) (storage.ResultStore, error) {
	switch cfg.Storage.Driver {
	case "badger":
		log.Info().Str("path", cfg.Storage.Path).Msg("using badger result store")
		return storage.NewBadgerStore(cfg.Storage.Path)
	default:
		return storage.NewMemoryStore(), nil
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer store.Close()

		statementHandler := handler.NewStatementHandler(buildService(cfg, store), cfg.MaxUploadBytes())

		if cfg.Logging.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery(), requestLogger())
		router.MaxMultipartMemory = 32 << 20

		router.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "healthy",
				"service": "Financial Ratio Analysis",
				"version": version,
			})
		})

		api := router.Group("/api/v1")
		statementHandler.RegisterRoutes(api)

		srv := &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Server.Port).Msg("starting financial ratio service")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a statement file and print its ratios",
	Long:  "Analyze a PDF, image, text or JSON rows file. Results are not persisted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		doc := dto.DocumentInput{Filename: args[0], Data: data}
		doc.Password, _ = cmd.Flags().GetString("password")
		if structuredFile, _ := cmd.Flags().GetString("structured"); structuredFile != "" {
			structured, err := os.ReadFile(structuredFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", structuredFile, err)
			}
			doc.Structured = string(structured)
		}

		svc := buildService(cfg, storage.NewMemoryStore())
		result, err := svc.AnalyzeDocument(cmd.Context(), doc)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		out := cmd.OutOrStdout()
		switch format {
		case "table":
			fmt.Fprint(out, service.FormatRatioTable(result.Ratios))
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("format", "table", "output format (table, json)")
	analyzeCmd.Flags().String("password", "", "password for encrypted PDFs")
	analyzeCmd.Flags().String("structured", "", "JSON file with pre-structured statement output")
}
