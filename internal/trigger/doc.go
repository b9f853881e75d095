// Package trigger decides when postboard loads the post source.
//
// A [Scheduler] runs one load as soon as it starts, mirroring a view that
// fetches on mount, and then optionally on a cron schedule. It does not
// retry failed loads: a failure stays in the state until the next trigger.
//
// Users of the postboard library should not need to interact with this
// package directly. Configuration is done through the main postboard package.
package trigger
