package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/zap"
)

const (
	listenErrorTemplate   = "listen on %s: %w"
	shutdownErrorTemplate = "shutdown server: %w"
	listeningLogMessage   = "Dashboard API listening"
	stoppingLogMessage    = "Dashboard API stopping"
	addressFieldConstant  = "address"
)

// Serve listens on the configured address until the context is cancelled, then shuts down gracefully.
// The ready callback, when set, receives the bound address.
func Serve(executionContext context.Context, configuration Configuration, handler http.Handler, logger *zap.Logger, ready func(net.Addr)) error {
	sanitized := configuration.Sanitize()
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, listenError := net.Listen("tcp", sanitized.Address)
	if listenError != nil {
		return fmt.Errorf(listenErrorTemplate, sanitized.Address, listenError)
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  sanitized.ReadTimeout,
		WriteTimeout: sanitized.WriteTimeout,
	}

	serveErrors := make(chan error, 1)
	go func() {
		serveErrors <- server.Serve(listener)
	}()
	logger.Info(listeningLogMessage, zap.String(addressFieldConstant, listener.Addr().String()))
	if ready != nil {
		ready(listener.Addr())
	}

	select {
	case serveError := <-serveErrors:
		if errors.Is(serveError, http.ErrServerClosed) {
			return nil
		}
		return serveError
	case <-executionContext.Done():
	}

	logger.Info(stoppingLogMessage)
	shutdownContext, cancel := context.WithTimeout(context.Background(), sanitized.ShutdownTimeout)
	defer cancel()
	if shutdownError := server.Shutdown(shutdownContext); shutdownError != nil {
		return fmt.Errorf(shutdownErrorTemplate, shutdownError)
	}
	return nil
}
