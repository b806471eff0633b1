package gcnctrl

import (
	"encoding/json"
	"strconv"

	"github.com/nats-io/nats.go/micro"
)

func StatesHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		states := svc.States()
		r.RespondJSON(&states)
	}
}

func ControllerHandler(svc Service) micro.HandlerFunc {
	return func(r micro.Request) {
		var raw struct {
			Port int `json:"port"`
		}

		if len(r.Data()) > 0 && r.Data()[0] == '{' {
			if err := json.Unmarshal(r.Data(), &raw); err != nil {
				r.Error("400", err.Error(), nil)
				return
			}
		} else {
			port, err := strconv.Atoi(string(r.Data()))
			if err != nil {
				r.Error("400", err.Error(), nil)
				return
			}

			raw.Port = port
		}

		port, err := ParsePortIndex(raw.Port)
		if err != nil {
			r.Error("400", err.Error(), nil)
			return
		}

		controller, err := svc.Controller(port)
		if err != nil {
			r.Error("404", err.Error(), nil)
			return
		}

		r.RespondJSON(controller)
	}
}
