package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-alexa/internal/action"
	"github.com/nerrad567/gray-logic-alexa/internal/api"
	"github.com/nerrad567/gray-logic-alexa/internal/catalogue"
	"github.com/nerrad567/gray-logic-alexa/internal/device"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-alexa/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-alexa/internal/item"
)

// newRootCommand builds the command tree. Running the root command without
// a subcommand serves the catalogue.
func newRootCommand() *cobra.Command {
	var configFlag string

	root := &cobra.Command{
		Use:           "alexabridge",
		Short:         "Compile alexa_* item directives into a voice assistant device catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), getConfigPath(configFlag))
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to config.yaml (default $"+configEnvVar+" or "+defaultConfigPath+")")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Build the catalogue and serve it until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), getConfigPath(configFlag))
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Build and validate the catalogue without serving it",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runCheck(getConfigPath(configFlag), cmd.OutOrStdout())
			},
		},
		newDevicesCommand(&configFlag),
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "alexabridge %s (commit %s, built %s)\n", version, commit, date)
			},
		},
	)

	return root
}

func newDevicesCommand(configFlag *string) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Build the catalogue and list its devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDevices(getConfigPath(*configFlag), cmd.OutOrStdout(), jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print device summaries as JSON")
	return cmd
}

// setup loads configuration, creates the logger and reads the item tree.
func setup(configPath string) (*config.Config, *logging.Logger, []catalogue.Entry, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)

	tree, err := item.Load(cfg.Items.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading items: %w", err)
	}
	log.Info("item tree loaded", "path", cfg.Items.Path, "entries", tree.Len())

	return cfg, log, catalogue.FromTree(tree), nil
}

// runServe is the serve command, separated from cobra for testability.
//
// It builds the catalogue, announces it, hands it to the API server and
// blocks until ctx is cancelled.
func runServe(ctx context.Context, configPath string) error {
	cfg, log, entries, err := setup(configPath)
	if err != nil {
		return err
	}
	log.Info("starting Gray Logic Alexa bridge",
		"version", version,
		"commit", commit,
		"build_date", date,
		"site", cfg.Site.ID,
	)

	server, err := api.New(api.Deps{Config: cfg.Service, Logger: log, Version: version})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	announcers, closeAll := connectAnnouncers(cfg, log)
	defer closeAll()

	builder, err := catalogue.New(catalogue.Deps{
		Logger:     log,
		Vocabulary: action.Default(),
		Service:    server,
		Announcers: announcers,
	})
	if err != nil {
		return err
	}

	if _, _, err := builder.Run(ctx, entries); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutdown signal received, stopping services")
	return nil
}

// connectAnnouncers connects the enabled announcement backends. A backend
// that cannot be reached is logged and left out; the catalogue is still
// served. The returned func closes every connected backend.
func connectAnnouncers(cfg *config.Config, log *logging.Logger) ([]catalogue.Announcer, func()) {
	var announcers []catalogue.Announcer
	var closers []func() error

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			log.Warn("MQTT unavailable, catalogue will not be announced", "error", err)
		} else {
			client.SetLogger(log)
			log.Info("connected to MQTT broker",
				"host", cfg.MQTT.Broker.Host,
				"port", cfg.MQTT.Broker.Port,
			)
			announcers = append(announcers, mqtt.NewAnnouncer(client, client.Topics()))
			closers = append(closers, client.Close)
		}
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			log.Warn("InfluxDB unavailable, catalogue statistics will not be recorded", "error", err)
		} else {
			client.SetOnError(func(err error) {
				log.Warn("InfluxDB write error", "error", err)
			})
			log.Info("connected to InfluxDB", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
			announcers = append(announcers, influxdb.NewRecorder(client, cfg.Site.ID))
			closers = append(closers, client.Close)
		}
	}

	return announcers, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("error closing announcer", "error", err)
			}
		}
	}
}

// build compiles and validates the catalogue without announcing or serving.
func build(configPath string) (*device.Registry, catalogue.Stats, error) {
	_, log, entries, err := setup(configPath)
	if err != nil {
		return nil, catalogue.Stats{}, err
	}

	builder, err := catalogue.New(catalogue.Deps{Logger: log, Vocabulary: action.Default()})
	if err != nil {
		return nil, catalogue.Stats{}, err
	}
	return builder.Build(entries)
}

// runCheck is the check command: a failed validation is a non-zero exit.
func runCheck(configPath string, out io.Writer) error {
	_, stats, err := build(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "catalogue ok: %d devices (%d aliases) from %d entries; %d compiled, %d skipped, %d rejected\n",
		stats.Devices, stats.Aliases, stats.Entries, stats.Compiled, stats.Skipped, stats.Rejected)
	if stats.AliasesSkipped > 0 {
		fmt.Fprintf(out, "warning: %d alias devices skipped (id already in use)\n", stats.AliasesSkipped)
	}
	return nil
}

// runDevices is the devices command.
func runDevices(configPath string, out io.Writer, jsonOut bool) error {
	registry, _, err := build(configPath)
	if err != nil {
		return err
	}

	devices := registry.All()
	summaries := make([]device.Summary, 0, len(devices))
	for _, d := range devices {
		summaries = append(summaries, d.Summary())
	}

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tALIAS OF\tTYPES\tACTIONS")
	for _, s := range summaries {
		aliasOf := s.AliasOf
		if aliasOf == "" {
			aliasOf = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, aliasOf, strings.Join(s.Types, ","), strings.Join(s.Actions, ","))
	}
	return tw.Flush()
}
