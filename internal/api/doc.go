// Package api serves the read-only status API of the theme sender.
//
// Routes (all under /api/v1):
//
//	GET /health    liveness and broker connectivity, never authenticated
//	GET /theme     last published value, its source and any active override
//	GET /schedule  today's solar boundaries
//	GET /history   theme_history rows (kind, since, limit, offset)
//	GET /ws        WebSocket stream of theme.published events
//
// When security.jwt.secret is set every route except /health requires an
// HS256 bearer token. The API never accepts commands; overrides arrive only
// over MQTT.
package api
