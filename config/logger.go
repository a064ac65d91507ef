package config

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// InitLogger configures the global logrus logger from LOG_LEVEL.
func InitLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
