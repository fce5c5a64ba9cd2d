// Package shutdown provides graceful shutdown for devserve.
//
//   - WithSignals: a context cancelled on SIGINT/SIGTERM
//   - Handler: ordered cleanup hooks run once with a timeout
//
// Usage:
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	<-ctx.Done()
//	err := h.Shutdown()
package shutdown
