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

// Package lifecycle pkg/lifecycle/server.go runs a set of long-lived
// services next to the replica's gRPC liveness endpoint and drives them
// through signal-based shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sodafoundation/delfin-sub001/pkg/grpc"
	"github.com/sodafoundation/delfin-sub001/pkg/logger"
	"github.com/sodafoundation/delfin-sub001/pkg/models"
)

const (
	MaxRecvSize     = 4 * 1024 * 1024 // 4MB
	MaxSendSize     = 4 * 1024 * 1024 // 4MB
	ShutdownTimeout = 10 * time.Second
)

// Service is one long-lived component of the daemon. Start blocks until the
// service fails or its context is cancelled.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// ServiceFunc adapts a bare run function into a Service with a no-op Stop.
type ServiceFunc func(context.Context) error

func (f ServiceFunc) Start(ctx context.Context) error { return f(ctx) }

func (ServiceFunc) Stop(context.Context) error { return nil }

// GRPCServiceRegistrar is a function type for registering gRPC services.
type GRPCServiceRegistrar func(*grpc.Server) error

// ServerOptions holds configuration for creating a server.
type ServerOptions struct {
	ListenAddr           string
	ServiceName          string
	Services             []Service
	RegisterGRPCServices []GRPCServiceRegistrar
	Security             *models.SecurityConfig
}

// RunServer starts the services and the gRPC endpoint, then blocks until a
// signal, a service error, or context cancellation triggers shutdown.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info().Str("service", opts.ServiceName).Msg("Starting service")

	grpcServer, err := setupGRPCServer(ctx, opts.ListenAddr, opts.ServiceName, opts.RegisterGRPCServices, opts.Security)
	if err != nil {
		return fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	errChan := make(chan error, len(opts.Services)+1)

	for _, svc := range opts.Services {
		go func(svc Service) {
			if err := svc.Start(ctx); err != nil && ctx.Err() == nil {
				errChan <- err
			}
		}(svc)
	}

	go func() {
		if err := grpcServer.Start(); err != nil {
			errChan <- err
		}
	}()

	return handleShutdown(ctx, cancel, grpcServer, opts.Services, errChan)
}

func setupGRPCServer(
	ctx context.Context,
	addr, serviceName string,
	registrars []GRPCServiceRegistrar,
	security *models.SecurityConfig) (*grpc.Server, error) {
	serverOpts := []grpc.ServerOption{
		grpc.WithMaxRecvSize(MaxRecvSize),
		grpc.WithMaxSendSize(MaxSendSize),
	}

	if security != nil {
		provider, err := grpc.NewSecurityProvider(ctx, security)
		if err != nil {
			return nil, fmt.Errorf("failed to create security provider: %w", err)
		}

		creds, err := provider.GetServerCredentials(ctx)
		if err != nil {
			if closeErr := provider.Close(); closeErr != nil {
				return nil, closeErr
			}

			return nil, fmt.Errorf("failed to get server credentials: %w", err)
		}

		serverOpts = append(serverOpts, grpc.WithServerOptions(creds))
	}

	grpcServer := grpc.NewServer(addr, serverOpts...)

	if err := grpcServer.RegisterHealthServer(); err != nil {
		logger.Warn().Err(err).Msg("Health server registration skipped")
	}

	grpcServer.GetHealthCheck().SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)

	for _, register := range registrars {
		if err := register(grpcServer); err != nil {
			logger.Error().Err(err).Msg("Failed to register gRPC service")
		}
	}

	return grpcServer, nil
}

func handleShutdown(
	ctx context.Context, cancel context.CancelFunc, grpcServer *grpc.Server, services []Service, errChan chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
	case err := <-errChan:
		logger.Error().Err(err).Msg("Service error, initiating shutdown")
		runErr = fmt.Errorf("service error: %w", err)
	case <-ctx.Done():
		runErr = ctx.Err()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	grpcServer.Stop(shutdownCtx)

	for _, svc := range services {
		if err := svc.Stop(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Error during service shutdown")
		}
	}

	return runErr
}
