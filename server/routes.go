package server

func (s *Server) initRoutes() {
	// Sign-in (browser)
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginRedirectHandler(), s.BrowserMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCallback, ChainMiddleware(s.OAuthCallbackHandler(), s.BrowserMiddleware()...))

	// Slash commands (Discord)
	s.RegisterRouteHandler("POST "+RouteInteractions, ChainMiddleware(s.InteractionsHandler(), s.APIMiddleware()...))
}
