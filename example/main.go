package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pthm/asyncprops"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "optional YAML config file")
	latency := flag.Duration("latency", 200*time.Millisecond, "simulated loader latency")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := asyncprops.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = asyncprops.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	opts, err := cfg.Options()
	if err != nil {
		logger.Error("config options", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	metrics := asyncprops.NewMetrics(reg)

	// Create routes
	store := NewStore(*latency)
	routes := registerRoutes(store)

	opts = append(opts,
		asyncprops.WithLogger(logger),
		asyncprops.WithMetrics(metrics),
		asyncprops.WithLayout(layout),
	)
	srv := asyncprops.NewServer(matcher(routes), opts...)

	// Create router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", srv)

	logger.Info("starting server", "addr", *addr, "routes", routes.IDs())
	if err := http.ListenAndServe(*addr, mux); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
