package handler

import (
	"net/http"
	"sync"

	"condo/config"
	"condo/di"
	"condo/shared/logger"
	httpTransport "condo/transport/http"
)

var (
	server   *httpTransport.HTTP
	initOnce sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built on the first invocation
// and reused by warm instances.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get())

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()
	server.ServeHTTP(w, r)
}
