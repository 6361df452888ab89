// Package uplink bridges field-gateway MQTT readings into the state store
// and mirrors raw telemetry to InfluxDB. It is the writer of the sensor
// paths that the predictor only ever reads.
package uplink

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/agri-hub/irrigation-backend/internal/statestore"
	"github.com/agri-hub/irrigation-backend/pkg/dedup"
)

// Reading is the wire payload published by a field gateway.
type Reading struct {
	DeviceID     string    `json:"device_id"`
	Humidity     float64   `json:"humidity"`
	Temperature  float64   `json:"temperature"`
	SoilMoisture float64   `json:"soilMoisture"`
	Timestamp    time.Time `json:"timestamp"`
}

type Service struct {
	store       statestore.Store
	writeAPI    api.WriteAPIBlocking // nil disables the Influx mirror
	measurement string
	window      *dedup.Window
	logger      *log.Logger
	timeout     time.Duration
}

func NewService(store statestore.Store, writeAPI api.WriteAPIBlocking, measurement string, logger *log.Logger) *Service {
	if measurement == "" {
		measurement = "sensor_reading"
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:       store,
		writeAPI:    writeAPI,
		measurement: measurement,
		window:      dedup.New(10*time.Minute, 20000),
		logger:      logger,
		timeout:     5 * time.Second,
	}
}

// HandleMessage is the MQTT consumer handler. Malformed payloads are logged
// and dropped; store write failures are returned so they show up in the
// consumer log.
func (s *Service) HandleMessage(_ string, msg mqtt.Message) error {
	sum := sha256.Sum256(msg.Payload())
	if !s.window.FirstSeen(hex.EncodeToString(sum[:])) {
		return nil
	}

	var r Reading
	if err := json.Unmarshal(msg.Payload(), &r); err != nil {
		s.logger.Printf("uplink: bad payload: %v", err)
		return nil
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	fields := map[string]any{
		"humidity":     r.Humidity,
		"temperature":  r.Temperature,
		"soilMoisture": r.SoilMoisture,
	}
	// Field-level writes keep the sensor node assembled for the poller;
	// the raw node is what the trigger and health check read.
	for name, value := range fields {
		if err := s.store.Set(ctx, statestore.PathSensorData+"/"+name, value); err != nil {
			return err
		}
	}
	if err := s.store.Set(ctx, statestore.PathSensorRaw, fields); err != nil {
		return err
	}

	s.mirror(ctx, r)
	s.logger.Printf("uplink: reading stored: device=%s moisture=%.1f temp=%.1f humidity=%.1f",
		r.DeviceID, r.SoilMoisture, r.Temperature, r.Humidity)
	return nil
}

// mirror writes the raw reading to InfluxDB. Telemetry history is
// best-effort and never blocks the store write path.
func (s *Service) mirror(ctx context.Context, r Reading) {
	if s.writeAPI == nil {
		return
	}
	point := influxdb2.NewPoint(
		s.measurement,
		map[string]string{"device_id": r.DeviceID},
		map[string]any{
			"humidity":     r.Humidity,
			"temperature":  r.Temperature,
			"soil_moisture": r.SoilMoisture,
		},
		r.Timestamp,
	)
	if err := s.writeAPI.WritePoint(ctx, point); err != nil {
		s.logger.Printf("uplink: influx write error: %v", err)
	}
}
