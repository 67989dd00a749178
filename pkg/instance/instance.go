package instance

import "github.com/angelmondragon/catering-backend/pkg/env"

// GetID names the running process in logs: the platform dyno when present,
// then an explicit INSTANCE_ID, else "local".
func GetID() string {
	if id := env.Get("DYNO", ""); id != "" {
		return id
	}
	return env.Get("INSTANCE_ID", "local")
}
