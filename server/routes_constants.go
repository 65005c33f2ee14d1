package server

import "github.com/jrsteele09/go-discord-auth/commands"

// Route path constants
const (
	// Browser routes
	RouteLogin    = commands.LoginPath
	RouteCallback = "/auth/callback"

	// Discord interactions endpoint
	RouteInteractions = "/bot"
)
