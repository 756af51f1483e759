package server

func (s *Server) initRoutes() {
	// Method checks live in the handlers: a method-qualified pattern would let
	// GET /access/ fall through to the static file server instead of a 405.
	s.RegisterRouteHandler(RouteAccess, ChainMiddleware(s.Token(), s.APIMiddleware()...))
	s.RegisterRouteHandler(RouteHello, ChainMiddleware(s.Hello(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(s.metrics.Handler().ServeHTTP, s.APIMiddleware()...))

	// always last, always on "/"
	s.RegisterRouteHandler(RouteRoot, ChainMiddleware(s.fileServer.ServeHTTP, s.HTMLMiddleware()...))
}
