package gcnctrl

import (
	"go.uber.org/zap"
)

func LoggingMiddleware(log *zap.Logger) ServiceMiddleware {
	return func(next Service) Service {
		log := log.With(
			zap.String("service", "gcnctrl"),
		)

		log.Info("service built")

		return &loggingMiddleware{log, next}
	}
}

type loggingMiddleware struct {
	log  *zap.Logger
	next Service
}

func (mw *loggingMiddleware) States() States {
	return mw.next.States()
}

func (mw *loggingMiddleware) Controller(port PortIndex) (*Controller, error) {
	log := mw.log.With(
		zap.String("action", "controller"),
		zap.Uint8("port", uint8(port)),
	)

	controller, err := mw.next.Controller(port)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}

	return controller, nil
}

func (mw *loggingMiddleware) Connected() bool {
	return mw.next.Connected()
}

func (mw *loggingMiddleware) Close() error {
	log := mw.log.With(
		zap.String("action", "close"),
	)

	if err := mw.next.Close(); err != nil {
		log.Error(err.Error())
		return err
	}

	log.Info("service closed")
	return nil
}
