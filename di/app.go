package di

import (
	"condo/transport/http"
	"condo/transport/scheduler"
)

// App bundles the long running processes started by cmd/app.
type App struct {
	HTTP      *http.HTTP
	Scheduler *scheduler.Scheduler
}
