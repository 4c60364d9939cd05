//go:build !tinygo

// Package telemetry forwards monitor cycles to a DogStatsD agent.
package telemetry

import (
	"github.com/DataDog/datadog-go/statsd"

	"envmon-go/errcode"
	"envmon-go/services/monitor"
	"envmon-go/types"
	"envmon-go/x/logx"
)

// Sink is the part of the statsd client the observer uses.
type Sink interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Incr(name string, tags []string, rate float64) error
}

type Observer struct {
	sink Sink
	log  logx.Logger
}

var _ monitor.Observer = (*Observer)(nil)

// Dial creates a DogStatsD client for addr ("host:port" or unix socket).
func Dial(addr, namespace string, tags []string) (*statsd.Client, error) {
	c, err := statsd.New(addr)
	if err != nil {
		return nil, err
	}
	c.Namespace = namespace
	c.Tags = tags
	return c, nil
}

// SensorTags tags metrics with the sensor model and where it is wired.
func SensorTags(i types.SensorInfo) []string {
	return []string{"sensor:" + i.Sensor, "sensor_bus:" + i.Bus}
}

func New(sink Sink, log logx.Logger) *Observer {
	return &Observer{sink: sink, log: logx.OrNop(log)}
}

func (t *Observer) Observe(o monitor.Outcome) {
	if o.SensorErr != nil {
		t.incr("sensor.read_error", "code:"+string(errcode.Of(o.SensorErr)))
	} else {
		t.gauge("humidity", float64(o.Reading.Humidity))
		t.gauge("temperature", float64(o.Reading.Temperature))
		t.gauge("bar.lit", float64(o.Lit))
	}
	if o.DisplayErr != nil {
		t.incr("display.error", "code:"+string(errcode.Of(o.DisplayErr)))
	}
}

func (t *Observer) gauge(name string, v float64) {
	if err := t.sink.Gauge(name, v, nil, 1); err != nil {
		t.log.Warn("failed to emit gauge metric", "metric", name, "err", err)
	}
}

func (t *Observer) incr(name, tag string) {
	if err := t.sink.Incr(name, []string{tag}, 1); err != nil {
		t.log.Warn("failed to emit count metric", "metric", name, "err", err)
	}
}
