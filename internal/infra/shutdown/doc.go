// Package shutdown coordinates graceful process termination.
//
// Hooks run in reverse registration order once SIGINT or SIGTERM arrives,
// sharing one deadline:
//
//	h := shutdown.NewHandler(15 * time.Second)
//	h.OnShutdown("http", srv.Shutdown)
//	h.OnShutdown("checkpoint", ledger.Checkpoint)
//	err := h.Wait(ctx)
package shutdown
