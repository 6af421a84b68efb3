/*-
 * Copyright 2025 The SODA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// cmd/trapd/main.go is the trap engine replica daemon: UDP trap listener,
// alert pipeline, connectivity sweeps, cluster config sync, and the
// control-plane HTTP API, all in one process.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/sodafoundation/delfin-sub001/pkg/api"
	"github.com/sodafoundation/delfin-sub001/pkg/clustersync"
	"github.com/sodafoundation/delfin-sub001/pkg/config"
	"github.com/sodafoundation/delfin-sub001/pkg/decoder"
	"github.com/sodafoundation/delfin-sub001/pkg/dispatch"
	"github.com/sodafoundation/delfin-sub001/pkg/lifecycle"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/metrics"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
	"github.com/sodafoundation/delfin-sub001/pkg/normalizer"
	"github.com/sodafoundation/delfin-sub001/pkg/registry"
	"github.com/sodafoundation/delfin-sub001/pkg/secrets"
	"github.com/sodafoundation/delfin-sub001/pkg/trapengine"
	"github.com/sodafoundation/delfin-sub001/pkg/validator"
)

// Config is the single JSON configuration file of the daemon.
type Config struct {
	Logger logger.Config `json:"logger"`

	// SecretKey is the hex-encoded 32-byte AES key protecting stored
	// credentials. Empty disables encryption (development only).
	SecretKey string `json:"secret_key"`

	DBPath string `json:"db_path"`

	Engine     trapengine.Config      `json:"engine"`
	Normalizer normalizer.Config      `json:"normalizer"`
	Validator  validator.Config       `json:"validator"`
	Cluster    clustersync.Config     `json:"cluster"`
	API        api.Config             `json:"api"`
	Dispatch   dispatch.Config        `json:"dispatch"`
	Webhook    dispatch.WebhookConfig `json:"webhook"`
	Metrics    models.MetricsConfig   `json:"metrics"`
	Server     models.ServerConfig    `json:"server"`
}

func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	return nil
}

func main() {
	configPath := flag.String("config", "/etc/delfin/trapd.json", "Path to config file")
	flag.Parse()

	var cfg Config
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(context.Background(), &cfg); err != nil {
		logger.Error().Err(err).Msg("trapd exited with error")
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *Config) error {
	cipher, err := buildCipher(cfg.SecretKey)
	if err != nil {
		return err
	}

	store, err := registry.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer store.Close()

	decoders := decoder.NewRegistry()
	decoders.SetFallback(decoder.NewGenericDriver())

	metricMgr := metrics.NewManager(cfg.Metrics)

	// Sink registry: every sink is registered by name; the dispatch config
	// selects the active subset.
	sinks := dispatch.NewSinkRegistry()
	sinks.RegisterAlert(dispatch.NewLogAlertSink())
	sinks.RegisterMetric(dispatch.NewLogMetricSink())
	sinks.RegisterMetric(dispatch.NewBufferMetricSink(metricMgr))

	if cfg.Webhook.Enabled {
		sinks.RegisterAlert(dispatch.NewWebhookSink(cfg.Webhook))
	}

	wsSink := dispatch.NewWebsocketSink()
	sinks.RegisterAlert(wsSink)

	defer wsSink.CloseAll()

	// The NATS sinks share the cluster sync connection.
	conn, err := clustersync.Connect(cfg.Cluster)
	if err != nil {
		return err
	}

	sinks.RegisterAlert(dispatch.NewNatsAlertSink(conn, dispatch.NatsConfig{Enabled: true}))
	sinks.RegisterMetric(dispatch.NewNatsMetricSink(conn, dispatch.NatsConfig{Enabled: true}))

	// An empty dispatch config means "everything registered".
	if len(cfg.Dispatch.AlertSinks) == 0 {
		cfg.Dispatch.AlertSinks = []string{"log", "webhook", "websocket", "nats"}
	}

	if len(cfg.Dispatch.MetricSinks) == 0 {
		cfg.Dispatch.MetricSinks = []string{"log", "buffer", "nats"}
	}

	forwarder := dispatch.NewDispatcher(cfg.Dispatch, sinks)

	norm := normalizer.New(cfg.Normalizer, store, cipher, decoders, forwarder)
	engine := trapengine.NewManager(cfg.Engine, store, cipher, norm)

	prober := validator.NewSnmpProber(cipher)
	val := validator.New(cfg.Validator, store, prober, forwarder)

	cluster := clustersync.New(cfg.Cluster, conn, engine, val, norm)
	defer cluster.Close()

	apiServer := api.NewServer(cfg.API, store, cipher, val, cluster, val, metricMgr, wsSink)

	services := []lifecycle.Service{
		&engineService{engine: engine, cluster: cluster},
		lifecycle.ServiceFunc(val.Start),
		lifecycle.ServiceFunc(apiServer.Start),
	}

	return lifecycle.RunServer(ctx, &lifecycle.ServerOptions{
		ListenAddr:  cfg.Server.ListenAddr,
		ServiceName: "delfin-trapd",
		Services:    services,
		Security:    cfg.Server.Security,
	})
}

// engineService adapts the trap engine plus its cluster subscriptions to the
// lifecycle contract: the engine must be receiving before sync messages are
// applied to it.
type engineService struct {
	engine  *trapengine.Manager
	cluster *clustersync.Service
}

func (s *engineService) Start(ctx context.Context) error {
	if err := s.engine.Start(ctx); err != nil {
		return err
	}

	if err := s.cluster.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	return ctx.Err()
}

func (s *engineService) Stop(context.Context) error {
	s.engine.Stop()
	return nil
}

func buildCipher(key string) (secrets.Cipher, error) {
	if key == "" {
		logger.Warn().Msg("No secret key configured, storing credentials unencrypted")
		return secrets.PlainCipher{}, nil
	}

	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("secret_key must be hex: %w", err)
	}

	return secrets.NewAESCipher(raw)
}
