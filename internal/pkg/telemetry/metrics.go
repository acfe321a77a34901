package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Computation health
	MetricConvergenceFailRate = "geodesy.convergence_failure_rate"
	MetricAltimetryRejectRate = "altimetry.rejection_rate"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricNavLogsBuilt    = "business.navlogs_built"
	MetricRoutesRequested = "business.routes_requested"
	MetricWaypointLookups = "business.waypoint_lookups"
)
