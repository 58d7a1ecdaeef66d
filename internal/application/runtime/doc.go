// Package runtime drives integration lifecycles and executions.
//
// LifecycleService owns status transitions, ExecutionEngine performs one run
// of a deployed integration, and MonitorService answers health and timeline
// queries. All three work on the integration domain ports and never touch
// storage or transport directly.
package runtime
