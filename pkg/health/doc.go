// Package health serves liveness and readiness probes.
//
// Readiness runs named checks concurrently under a shared timeout and
// reports each one:
//
//	r.Get("/healthz", health.ReadinessHandler(health.Checks{
//		"locales": localesCheck,
//		"redis":   redis.Healthcheck(client),
//	}, health.WithTimeout(2*time.Second)))
//
// Response (503 when any check fails):
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"...","duration":"1.2ms"}}}
package health
