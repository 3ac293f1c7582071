package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/solita/smsforward/config"
	"github.com/solita/smsforward/core"
	"github.com/solita/smsforward/metrics"
	"github.com/solita/smsforward/sinks"
)

func main() {
	listenAddr := flag.String("listen", "0.0.0.0:5000", "Address to listen for incoming webhooks")
	envFile := flag.String("env-file", ".env", "Optional file of environment variables to load at startup")
	dryRun := flag.Bool("dry-run", false, "Log received messages instead of emailing them")
	cwNamespace := flag.String("cloudwatch-namespace", "", "CloudWatch namespace to publish forwarding metrics to")

	flag.Parse()

	// Values already in the environment take precedence over the file
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Error("Failed to load environment file", "file", *envFile, "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.LookupEnv, !*dryRun)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collectors := metrics.Fanout{metrics.NewStatsCollector("forward")}
	if *cwNamespace != "" {
		slog.Info("Publishing metrics to CloudWatch", "namespace", *cwNamespace)
		cw, err := metrics.NewCloudWatchFromEnv(ctx, *cwNamespace, map[string]string{"Service": "sms-forward"})
		if err != nil {
			slog.Error("Failed to create CloudWatch collector", "error", err)
			os.Exit(1)
		}
		collectors = append(collectors, cw)
	}

	enabledSinks := []core.Sink{&sinks.LoggingSink{}}
	if *dryRun {
		slog.Warn("Dry run enabled, messages will not be emailed")
	} else {
		slog.Info("Forwarding messages by email",
			"recipient", cfg.Recipient.Address, "smtp", cfg.Address(), "starttls", cfg.SMTPUseTLS)
		enabledSinks = append(enabledSinks, sinks.NewSMTP(cfg))
	}

	forwarder := core.NewForwarder(enabledSinks, collectors)
	server := &http.Server{
		Addr:              *listenAddr,
		Handler:           core.NewHandler(forwarder),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.SMTPTimeout + 30*time.Second,
	}

	go func() {
		slog.Info("Listening for webhooks", "address", *listenAddr, "endpoint", "/webhook")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Server forced to shut down", "error", err)
	}
}
