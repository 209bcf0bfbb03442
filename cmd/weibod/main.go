package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/weibo/internal/config"
	"github.com/matheus3301/weibo/internal/daemon"
	"github.com/matheus3301/weibo/internal/session"
	"go.uber.org/fx"
)

func main() {
	sessionFlag := flag.String("session", "", "session name (overrides config default)")
	metricsFlag := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flag.Parse()

	sessionName, err := session.Resolve(*sessionFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadOrDefault(session.ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(session.EnvPath(), ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "error: load env: %v\n", err)
		os.Exit(1)
	}
	if *metricsFlag != "" {
		cfg.MetricsAddr = *metricsFlag
	}
	if cfg.AppKey == "" || cfg.AppSecret == "" {
		fmt.Fprintf(os.Stderr, "warning: %s/%s not set, sign-in will fail\n", config.EnvAppKey, config.EnvAppSecret)
	}

	app := fx.New(
		daemon.Module(daemon.Params{SessionName: sessionName, Config: cfg}),
	)

	app.Run()
}
