package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flarexio/gcnctrl"
)

func main() {
	app := &cli.App{
		Name:  "gcnctrlmon",
		Usage: "Prints the state of controllers on a locally attached adapter.",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Time between printed snapshots.",
				Value: 100 * time.Millisecond,
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
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	scanner, err := gcnctrl.NewScanner()
	if err != nil {
		return err
	}
	defer scanner.Close()

	interval := cli.Duration("interval")

	for ctx.Err() == nil {
		adapter, err := scanner.FindAdapter()
		if err != nil {
			return err
		}

		if adapter == nil {
			fmt.Println("no adapter attached")
			time.Sleep(time.Second)
			continue
		}

		listener, err := adapter.Listen()
		if err != nil {
			return err
		}

		monitor(ctx, listener, interval)
		listener.Close()
	}

	return nil
}

func monitor(ctx context.Context, listener *gcnctrl.Listener, interval time.Duration) {
	last := time.Now()

	for ctx.Err() == nil {
		states, err := listener.Read(ctx)

		switch {
		case err == nil:
			if time.Since(last) < interval {
				continue
			}
			last = time.Now()

			for port, controller := range states {
				if controller == nil {
					fmt.Printf("port %d: -\n", port)
					continue
				}

				fmt.Printf("port %d: %s buttons=%s stick=(%d,%d) c=(%d,%d) l=%d r=%d\n",
					port, controller.Kind, controller.Buttons,
					controller.Stick.X, controller.Stick.Y,
					controller.CStick.X, controller.CStick.Y,
					controller.TriggerL, controller.TriggerR,
				)
			}
			fmt.Println()

		case errors.Is(err, gcnctrl.ErrTimeout),
			errors.Is(err, gcnctrl.ErrInvalidReport):
			// Transient; read again.

		default:
			fmt.Println("adapter lost, rescanning")
			return
		}
	}
}
