package api

import (
	"github.com/rs/cors"
)

// CorsSettings разрешает браузерному клиенту обращаться к API с любого origin
func CorsSettings(debug bool) *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"Content-Type"},
		Debug:          debug,
	})
}
