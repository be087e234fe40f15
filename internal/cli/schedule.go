package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/shaiso/Rollout/internal/engine"
	"github.com/shaiso/Rollout/internal/scheduler"
	"github.com/shaiso/Rollout/internal/telemetry"
)

// NewScheduleCmd создаёт команду запуска пайплайна по cron-расписанию.
//
// Демон-режим: крутится до SIGINT/SIGTERM, экспортирует /healthz
// и /metrics.
func NewScheduleCmd(outputFn func() *Output) *cobra.Command {
	var file string
	var cronExpr string
	var timezone string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := telemetry.SetupLogger()
			ctx := cmd.Context()

			if err := engine.LoadEnv(); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}

			pipeline, err := engine.Load(file)
			if err != nil {
				return err
			}

			r, store, cleanup := buildRunner(ctx, logger)
			defer cleanup()

			// Дедупликация тиков доступна только при включённой истории.
			var lookup scheduler.RunLookup
			if store != nil {
				lookup = store.Runs
			}

			sched, err := scheduler.New(scheduler.Config{
				Pipeline: pipeline,
				Runner:   r,
				CronExpr: cronExpr,
				Timezone: timezone,
				Lookup:   lookup,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			// HTTP mux: /healthz + /metrics
			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			mux.Handle("/metrics", promhttp.Handler())

			go func() {
				logger.Info("listening", "addr", listenAddr)
				if err := http.ListenAndServe(listenAddr, mux); err != nil {
					logger.Error("http server error", "error", err)
				}
			}()

			logger.Info("schedule started",
				"pipeline", pipeline.Name,
				"cron", cronExpr,
			)

			if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("schedule stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Pipeline file (default: rollout.toml, built-in pipeline if absent)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (minute hour dom month dow)")
	cmd.Flags().StringVar(&timezone, "tz", "", "Timezone for the schedule (default: local)")
	cmd.Flags().StringVar(&listenAddr, "listen", ":9090", "Address for /healthz and /metrics")
	cmd.MarkFlagRequired("cron")

	return cmd
}
