// Package shutdown coordinates process exit.
//
// A Handler owns the root context, which is canceled on SIGINT or SIGTERM
// or when Shutdown is called. Close hooks run once, newest first, under a
// shared deadline.
//
//	h := shutdown.NewHandler(5*time.Second, log)
//	h.OnShutdown("token store", store.Close)
//	defer h.Shutdown()
//	run(h.Context())
package shutdown
