// Package jobs implements background work that runs beside command handling.
//
// # Job Types
//
//   - StoreHealthMonitor: periodic ping of the raid store, logging outages
//     and recoveries
//
// Jobs expose Start/Stop for manual control and Run(ctx) for use inside an
// errgroup:
//
//	monitor := jobs.NewStoreHealthMonitor(db, time.Minute)
//	g.Go(func() error { return monitor.Run(ctx) })
//
// # Error Handling
//
// Jobs log errors but don't crash the application.
package jobs
