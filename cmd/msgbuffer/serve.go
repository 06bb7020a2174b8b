package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// serve atende em ln até o ctx encerrar e só retorna depois que o Shutdown
// terminou de drenar as requisições em andamento (ou estourou drain).
func serve(ctx context.Context, srv *http.Server, ln net.Listener, drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		// Serve caiu sem ninguém pedir shutdown
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return shutdownErr
}
