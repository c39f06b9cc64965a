package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dicklesworthstone/sysglance/internal/config"
	"github.com/Dicklesworthstone/sysglance/internal/sampler"
	"github.com/Dicklesworthstone/sysglance/internal/ui"
)

// Version info set via ldflags at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sysglance",
	Short: "Live terminal dashboard for host telemetry",
	Long: `sysglance samples CPU, memory, disk, network, GPU, container, and process
metrics on a fixed cadence and renders them as a color-coded terminal
dashboard.

Examples:
  sysglance
  sysglance --once
  sysglance --interval 1s --top 10
  SYSGLANCE_INTERVAL=5s sysglance`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	def := config.Default()
	flags := rootCmd.Flags()
	flags.Duration("interval", def.Interval, "refresh interval")
	flags.Bool("once", def.Once, "render a single snapshot and exit")
	flags.Int("top", def.TopProcesses, "number of processes to display")
	flags.Bool("gpu", def.EnableGPU, "enable the GPU probe (nvidia-smi)")
	flags.Bool("docker", def.EnableDocker, "enable the container probe (docker ps)")
	flags.Bool("debug", def.Debug, "enable debug logging")
	flags.BoolP("version", "v", false, "print version information")

	// Unrecognized flags still get a usage message despite SilenceUsage.
	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.Println(c.UsageString())
		return err
	})

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	for _, key := range []string{"interval", "once", "top", "gpu", "docker", "debug"} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			panic(err)
		}
	}
	config.SetDefaults(viper.GetViper())
}

func run(cmd *cobra.Command, _ []string) error {
	if v, _ := cmd.Flags().GetBool("version"); v {
		fmt.Printf("sysglance %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	builder := sampler.NewBuilder(buildSources(cfg), cfg.SourceTimeout(), cfg.TopProcesses, logger)

	if cfg.Once {
		sched := sampler.NewScheduler(builder, ui.PrintRenderer{Out: os.Stdout}, cfg.Interval, true, logger)
		return sched.Run(ctx)
	}
	return runDashboard(ctx, cfg, builder, logger)
}

func buildSources(cfg config.Config) []sampler.Source {
	sources := []sampler.Source{
		sampler.NewCPUSource(),
		sampler.NewMemorySource(),
		sampler.NewDiskSource(),
		sampler.NewNetworkSource(),
		sampler.NewProcessSource(),
	}
	if cfg.EnableGPU {
		sources = append(sources, sampler.NewGPUSource())
	}
	if cfg.EnableDocker {
		sources = append(sources, sampler.NewDockerSource())
	}
	return sources
}

func runDashboard(ctx context.Context, cfg config.Config, builder *sampler.Builder, logger *slog.Logger) error {
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := ui.NewStreamRenderer()
	sched := sampler.NewScheduler(builder, stream, cfg.Interval, false, logger)

	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(loopCtx) }()

	err := ui.RunDashboard(loopCtx, stream.Frames(), cancel)
	cancel()
	if serr := <-schedDone; serr != nil && err == nil {
		err = serr
	}
	// A quit key or interrupt cancels the program context mid-frame; that is
	// a clean shutdown, not a failure.
	if errors.Is(err, tea.ErrProgramKilled) && loopCtx.Err() != nil {
		err = nil
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
