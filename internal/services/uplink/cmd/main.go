package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/agri-hub/irrigation-backend/internal/services/uplink"
	"github.com/agri-hub/irrigation-backend/internal/statestore"
	"github.com/agri-hub/irrigation-backend/pkg/broker"
)

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	cfg := struct {
		Broker broker.Config
		Topic  string

		Store statestore.Config

		InfluxURL    string
		InfluxToken  string
		InfluxOrg    string
		InfluxBucket string
		Measurement  string
	}{
		Broker: broker.Config{
			Host:     envStr("MQTT_HOST", "localhost"),
			Port:     envInt("MQTT_PORT", 1883),
			User:     envStr("MQTT_USER", "guest"),
			Password: envStr("MQTT_PASSWORD", "guest"),
			ClientID: envStr("HOSTNAME", "sensor-uplink"),
		},
		Topic: envStr("MQTT_TOPIC", "sensor/reading/#"),

		Store: statestore.Config{
			Backend:       envStr("STORE_BACKEND", "firebase"),
			FirebaseURL:   envStr("FIREBASE_DB_URL", "https://agri-hub-544be-default-rtdb.firebaseio.com"),
			FirebaseToken: os.Getenv("FIREBASE_DB_TOKEN"),
			RedisAddr:     envStr("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       envInt("REDIS_DB", 0),
			RedisPrefix:   envStr("REDIS_PREFIX", "agrihub:"),
			Timeout:       time.Duration(envInt("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,
		},

		InfluxURL:    envStr("INFLUX_URL", ""), // empty disables the mirror
		InfluxToken:  os.Getenv("INFLUX_TOKEN"),
		InfluxOrg:    envStr("INFLUX_ORG", "agrihub"),
		InfluxBucket: envStr("INFLUX_BUCKET", "telemetry"),
		Measurement:  envStr("INFLUX_MEASUREMENT", "sensor_reading"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := statestore.New(cfg.Store)
	if err != nil {
		log.Fatalf("state store error: %v", err)
	}

	var writeAPI api.WriteAPIBlocking
	if cfg.InfluxURL != "" {
		influx := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)
		defer influx.Close()
		writeAPI = influx.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket)
	}

	svc := uplink.NewService(store, writeAPI, cfg.Measurement, nil)

	client, err := broker.Connect(ctx, &cfg.Broker)
	if err != nil {
		log.Fatalf("mqtt connection error: %v", err)
	}

	consumer := broker.NewConsumer(client, cfg.Topic, 1, svc.HandleMessage)
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("consumer error: %v", err)
	}
	log.Println("uplink stopped")
}
