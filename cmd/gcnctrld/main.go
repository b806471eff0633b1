package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/flarexio/gcnctrl"
)

const (
	Version string = "0.0.0"
)

func main() {
	app := &cli.App{
		Name: "gcnctrld",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "Specifies the working directory for the GCNCtrl service.",
				EnvVars: []string{"GCNCTRL_PATH"},
			},
			&cli.StringFlag{
				Name:    "nats",
				EnvVars: []string{"NATS_URL"},
				Value:   "wss://nats.flarex.io",
			},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(cli *cli.Context) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	path := cli.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = homeDir + "/.flarex/gcnctrl"
	}

	var cfg *gcnctrl.Config

	f, err := os.Open(path + "/config.yaml")
	if err == nil {
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return err
		}
	}

	if cfg == nil {
		cfg = &gcnctrl.Config{}
	}

	natsURL := cli.String("nats")
	natsCreds := path + "/user.creds"

	nc, err := nats.Connect(natsURL,
		nats.Name("gcnctrl"),
		nats.UserCredentials(natsCreds),
	)
	if err != nil {
		return err
	}
	defer nc.Drain()

	svc, err := gcnctrl.NewService(cfg, nc)
	if err != nil {
		return err
	}

	svc = gcnctrl.LoggingMiddleware(log)(svc)
	defer svc.Close()

	srv, err := micro.AddService(nc, micro.Config{
		Name:    "gcnctrl",
		Version: Version,
	})
	if err != nil {
		return err
	}
	defer srv.Stop()

	group := srv.AddGroup("controllers")
	group.AddEndpoint("states", gcnctrl.StatesHandler(svc))
	group.AddEndpoint("controller", gcnctrl.ControllerHandler(svc))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit // Wait for a termination signal

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}
