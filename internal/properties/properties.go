package properties

import (
	"os"
	"path/filepath"
)

const (
	DefaultTileWidth  = 1280
	DefaultTileHeight = 720

	DefaultNDVIThreshold = 0.6
	DefaultNDWIThreshold = 0.85
	DefaultNDBIThreshold = 0.8

	// Landsat-8 OLI band layout.
	DefaultGreenBand = 3
	DefaultRedBand   = 4
	DefaultNIRBand   = 5
	DefaultSWIRBand  = 6

	EnvPrefix = "LANDPREP"
)

func RootPath() string {
	if root := os.Getenv("ROOT_PATH"); root != "" {
		return root
	}
	return "."
}

func CacheDir() string {
	return filepath.Join(RootPath(), "data", "cache")
}

type Color struct {
	R, G, B uint8
}

// ColorMap holds the preview colors of the mask classes, keyed by class name.
var ColorMap = map[string]Color{
	"Background": {0, 0, 0},
	"Vegetation": {0, 128, 0},
	"Water":      {0, 0, 255},
	"Urban":      {255, 0, 0},
	"unknown":    {255, 0, 255},
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}
