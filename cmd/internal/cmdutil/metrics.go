package cmdutil

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var metricsListenAddr string

func RegisterMetricsFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&metricsListenAddr,
		"metrics-listen-addr",
		metricsListenAddr,
		"address to serve /metrics and /healthz on; retry attempt counters are exported there. Disabled if empty.",
	)
}

func metricsHandler(logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := fmt.Fprint(w, "OK"); err != nil {
			logger.Err(err).Msg("error writing healthz response")
		}
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// RunMetricsServer serves metrics in the background when
// --metrics-listen-addr is set. The server lives until the process exits.
func RunMetricsServer(logger zerolog.Logger) {
	if metricsListenAddr == "" {
		return
	}
	logger.Info().Str("addr", metricsListenAddr).Msg("serving metrics")
	go func() {
		if err := http.ListenAndServe(metricsListenAddr, metricsHandler(logger)); err != nil {
			logger.Err(err).Str("addr", metricsListenAddr).Msg("metrics server stopped")
		}
	}()
}
