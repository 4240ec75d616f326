// Command sensorfsd loads a sensor configuration and serves it over a
// Unix domain socket using sensorhost.Server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GoAethereal/cancel"

	"github.com/sensorfs/sensorfs/config"
	"github.com/sensorfs/sensorfs/sensorhost"
)

func main() {
	if err := run(); err != nil {
		slog.Error("sensorfsd exiting", "err", err)
		os.Exit(1)
	}
}

func run() error {
	var level slog.Level
	if v := os.Getenv("SENSORFS_LOG"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("SENSORFS_LOG: %w", err)
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	mock := flag.Bool("m", false, "start all channels in mock mode")
	flag.BoolVar(mock, "mock", false, "start all channels in mock mode")
	mountpoint := flag.String("d", ".propfs", "unix socket path exposing the sensor tree")
	flag.StringVar(mountpoint, "mountpoint", ".propfs", "unix socket path exposing the sensor tree")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: sensorfsd [-m] [-d mountpoint] FILE")
	}
	file := flag.Arg(0)

	sen, err := config.Load(file)
	if err != nil {
		return err
	}
	if *mock {
		sen.Mocked(true)
	}

	ctx, stop := cancel.Promote(cancel.New())
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("sensorfsd received shutdown signal")
		stop()
	}()

	slog.Info("sensorfsd serving", "model", sen.Model, "mountpoint", *mountpoint, "mock", *mock)

	srv := &sensorhost.Server{}
	err = srv.Serve(ctx, *mountpoint, sen)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
