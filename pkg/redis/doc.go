// Package redis opens go-redis clients from environment configuration.
//
// The site uses Redis as an optional shared cache for translation trees so
// that several server instances load each locale once between them.
//
//	var cfg redis.Config // parsed with caarlos0/env: REDIS_URL, REDIS_POOL_SIZE, ...
//
//	client, err := redis.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Open pings the server and retries with a growing pause so a server
// starting next to Redis does not fail on the first attempt. Healthcheck
// returns a probe for the health endpoint and Shutdown a hook for graceful
// shutdown.
//
// Errors are sentinels ([ErrEmptyConnectionURL], [ErrFailedToParseURL],
// [ErrConnectionFailed], [ErrHealthcheckFailed]) joined with the cause.
package redis
