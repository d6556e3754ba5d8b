// Package main runs the wren URL shortener HTTP server.
//
//	@title			Wren URL Shortener API
//	@version		1.0
//	@description	Shortens http and https URLs, redirects short codes and counts visits
//	@host			localhost:8080
//	@BasePath		/
//	@schemes		http https
package main

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	_ "github.com/sp3dr4/wren/docs"
	wrenfx "github.com/sp3dr4/wren/internal/fx"
)

func main() {
	fx.New(
		wrenfx.HTTPServerModules,
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
	).Run()
}
