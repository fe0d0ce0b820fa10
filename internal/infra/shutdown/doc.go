// Package shutdown provides graceful shutdown for prefixkv.
//
// Hooks registered with OnShutdown run in reverse registration order once a
// SIGINT/SIGTERM arrives or Trigger is called, sharing one timeout context.
//
// Usage:
//
//	h := shutdown.NewHandler(30 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait()
package shutdown
