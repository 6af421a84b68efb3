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

// Package grpc pkg/grpc/server.go wraps the gRPC server used for the
// per-replica liveness endpoint.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	"github.com/sodafoundation/delfin-sub001/pkg/logger"
)

// ServerOption is a function type that modifies Server configuration.
type ServerOption func(*Server)

var (
	errInternalError          = fmt.Errorf("internal error")
	errHealthServerRegistered = fmt.Errorf("health server already registered")
)

const (
	shutdownTimer = 5 * time.Second
)

// Server wraps a gRPC server with health checking and graceful shutdown.
type Server struct {
	srv              *grpc.Server
	healthCheck      *health.Server
	addr             string
	mu               sync.RWMutex
	services         map[string]struct{}
	serverOpts       []grpc.ServerOption
	healthRegistered bool
}

// NewServer creates a new gRPC server with the given configuration.
func NewServer(addr string, opts ...ServerOption) *Server {
	defaultOpts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor,
			RecoveryInterceptor,
		),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     10 * time.Minute,
			MaxConnectionAge:      24 * time.Hour,
			MaxConnectionAgeGrace: 5 * time.Minute,
			Time:                  120 * time.Second,
			Timeout:               20 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             120 * time.Second,
			PermitWithoutStream: true,
		}),
	}

	s := &Server{
		addr:             addr,
		services:         make(map[string]struct{}),
		serverOpts:       defaultOpts,
		healthRegistered: false,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.srv = grpc.NewServer(s.serverOpts...)
	s.healthCheck = health.NewServer()

	// Reflection makes grpcurl debugging possible.
	reflection.Register(s.srv)

	return s
}

// GetGRPCServer returns the underlying gRPC server.
func (s *Server) GetGRPCServer() *grpc.Server {
	return s.srv
}

// GetHealthCheck returns the health server instance.
func (s *Server) GetHealthCheck() *health.Server {
	return s.healthCheck
}

// RegisterHealthServer registers the health server if not already registered.
func (s *Server) RegisterHealthServer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.healthRegistered {
		return errHealthServerRegistered
	}

	healthpb.RegisterHealthServer(s.srv, s.healthCheck)
	s.healthRegistered = true

	return nil
}

// WithServerOptions adds gRPC server options.
func WithServerOptions(opt ...grpc.ServerOption) ServerOption {
	return func(s *Server) {
		s.serverOpts = append(s.serverOpts, opt...)
	}
}

// WithMaxRecvSize sets the maximum receive message size.
func WithMaxRecvSize(size int) ServerOption {
	return func(s *Server) {
		s.serverOpts = append(s.serverOpts, grpc.MaxRecvMsgSize(size))
	}
}

// WithMaxSendSize sets the maximum send message size.
func WithMaxSendSize(size int) ServerOption {
	return func(s *Server) {
		s.serverOpts = append(s.serverOpts, grpc.MaxSendMsgSize(size))
	}
}

// RegisterService registers a service with the gRPC server and marks it
// serving on the health endpoint.
func (s *Server) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.services[desc.ServiceName] = struct{}{}
	s.srv.RegisterService(desc, impl)

	if s.healthCheck != nil {
		s.healthCheck.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
}

// Start starts the gRPC server and blocks until it stops.
func (s *Server) Start() error {
	if !s.healthRegistered && s.healthCheck != nil {
		if err := s.RegisterHealthServer(); err != nil {
			logger.Warn().Err(err).Msg("Health server registration skipped")
		}
	}

	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logger.Info().Str("addr", s.addr).Msg("gRPC server listening")

	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

// Stop gracefully stops the gRPC server, forcing after a timeout.
func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, cancel := context.WithTimeout(ctx, shutdownTimer)
	defer cancel()

	if s.healthCheck != nil {
		for service := range s.services {
			s.healthCheck.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
		}
	}

	stopped := make(chan struct{})

	go func() {
		s.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		logger.Info().Msg("gRPC server stopped gracefully")
	case <-time.After(shutdownTimer):
		logger.Warn().Msg("gRPC server shutdown timed out, forcing stop")
		s.srv.Stop()
	}
}

// LoggingInterceptor logs RPC calls.
func LoggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	logger.Debug().
		Str("method", info.FullMethod).
		Dur("duration", time.Since(start)).
		Err(err).
		Msg("gRPC call")

	return resp, err
}

// RecoveryInterceptor handles panics in RPC handlers.
func RecoveryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Str("method", info.FullMethod).Msg("Recovered from panic in RPC handler")

			err = errInternalError
		}
	}()

	return handler(ctx, req)
}
