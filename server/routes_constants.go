package server

// Route path constants
// Prefixes end in "/" so that every path below them is routed to the handler.
const (
	RouteAccess  = "/access/"
	RouteHello   = "/hello/"
	RouteMetrics = "/metrics"
	RouteRoot    = "/"
)
