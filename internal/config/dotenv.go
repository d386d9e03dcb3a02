package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads env files in priority order: .env.local, then
// .env.<APP_ENV> when APP_ENV is set, then .env. godotenv never overwrites
// variables that are already set, so OS env vars always win and earlier
// files win over later ones. Returns the files actually found.
func LoadDotEnv() []string {
	candidates := []string{".env.local"}
	if env := os.Getenv("APP_ENV"); env != "" {
		candidates = append(candidates, ".env."+env)
	}
	candidates = append(candidates, ".env")

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
