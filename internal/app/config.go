package app

import (
	"github.com/rs/zerolog"

	"plebai/internal/config"
	"plebai/internal/signer"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Settings *config.Config     // loaded and validated settings
	Logger   zerolog.Logger     // base logger for every component
	OnAuth   signer.AuthHandler // optional; called when the bunker asks for approval
}
