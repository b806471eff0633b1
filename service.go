package gcnctrl

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type Service interface {
	// States returns the latest decoded snapshot of all four ports.
	States() States

	// Controller returns the controller on one port, or an error if
	// nothing is plugged in there.
	Controller(port PortIndex) (*Controller, error)

	// Connected reports whether an adapter session is currently live.
	Connected() bool

	Close() error
}

type ServiceMiddleware func(next Service) Service

// NewService starts the adapter lifecycle: discover, listen, and poll
// reports in the background, keeping the latest snapshot available.
// When an adapter disappears mid-stream the service drops the dead
// session and re-runs discovery; the protocol layer itself never
// retries. nc may be nil to run without publishing.
func NewService(cfg *Config, nc *nats.Conn) (Service, error) {
	cfg.ApplyDefaults()

	scanner, err := NewScanner(cfg.Adapter.Devices...)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	svc := &service{
		log: zap.L().With(
			zap.String("service", "gcnctrl"),
		),
		cfg:     cfg,
		nc:      nc,
		scanner: scanner,
		cancel:  cancel,
	}

	svc.wg.Add(1)
	go svc.run(ctx)

	return svc, nil
}

type service struct {
	log     *zap.Logger
	cfg     *Config
	nc      *nats.Conn
	scanner *Scanner

	states    States
	connected bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
	sync.RWMutex
}

func (svc *service) run(ctx context.Context) {
	defer svc.wg.Done()

	log := svc.log.With(
		zap.String("action", "run"),
	)

	for {
		if err := svc.sleep(ctx, 0); err != nil {
			return
		}

		adapter, err := svc.scanner.FindAdapter()
		if err != nil {
			log.Error(err.Error())

			if err := svc.sleep(ctx, svc.cfg.Adapter.RescanInterval); err != nil {
				return
			}
			continue
		}

		if adapter == nil {
			if err := svc.sleep(ctx, svc.cfg.Adapter.RescanInterval); err != nil {
				return
			}
			continue
		}

		listener, err := adapter.Listen()
		if err != nil {
			log.Error(err.Error())

			if err := svc.sleep(ctx, svc.cfg.Adapter.RescanInterval); err != nil {
				return
			}
			continue
		}

		listener.Timeout = svc.cfg.Adapter.ReadTimeout

		log.Info("adapter session opened")
		svc.setConnected(true)

		svc.poll(ctx, listener)

		listener.Close()
		svc.setConnected(false)

		log.Info("adapter session closed")
	}
}

func (svc *service) poll(ctx context.Context, listener *Listener) {
	log := svc.log.With(
		zap.String("action", "poll"),
	)

	for {
		states, err := listener.Read(ctx)
		if ctx.Err() != nil {
			return
		}

		switch {
		case err == nil:
			svc.update(states)

		case errors.Is(err, ErrTimeout), errors.Is(err, ErrInvalidReport):
			// Transient; retry the read.

		default:
			log.Error(err.Error())
			return
		}
	}
}

func (svc *service) update(states States) {
	svc.Lock()
	changed := !reflect.DeepEqual(svc.states, states)
	svc.states = states
	svc.Unlock()

	if !changed || svc.nc == nil {
		return
	}

	bs, err := json.Marshal(&states)
	if err != nil {
		return
	}

	svc.nc.Publish(svc.cfg.NATS.Subject, bs)
}

func (svc *service) setConnected(connected bool) {
	svc.Lock()
	defer svc.Unlock()

	svc.connected = connected
	if !connected {
		svc.states = States{}
	}
}

func (svc *service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (svc *service) States() States {
	svc.RLock()
	defer svc.RUnlock()

	return svc.states
}

func (svc *service) Controller(port PortIndex) (*Controller, error) {
	svc.RLock()
	defer svc.RUnlock()

	controller, ok := svc.states.Port(port)
	if !ok {
		return nil, errors.New("controller not connected")
	}

	return controller, nil
}

func (svc *service) Connected() bool {
	svc.RLock()
	defer svc.RUnlock()

	return svc.connected
}

func (svc *service) Close() error {
	if svc.cancel != nil {
		svc.cancel()
		svc.cancel = nil
	}

	svc.wg.Wait()

	if svc.scanner != nil {
		svc.scanner.Close()
		svc.scanner = nil
	}

	return nil
}
