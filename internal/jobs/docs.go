// Package jobs runs the background workers of the fulfillment service on
// github.com/robfig/cron/v3 schedules.
//
// The only worker today is DispatchJob: on a fixed interval it invokes the
// dispatch command, which hands the oldest packed order to an available
// delivery partner. The interval comes from DISPATCH_INTERVAL_SECONDS and is
// kept short so a packed order never waits long for a rider.
//
// JobManager owns worker lifecycle:
//
//	manager := jobs.NewJobManager(dispatchHandler, dispatchInterval, logger)
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("background jobs:", err)
//	}
//	defer manager.StopAll()
//
// A dispatch tick that finds no packed order, or no free partner, is a normal
// quiet-period outcome and is skipped without logging. Every other error is
// logged because it points at a real fault in the pipeline.
package jobs
