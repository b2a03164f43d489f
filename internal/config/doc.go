// Package config manages application configuration for raidsign.
//
// Configuration is layered: built-in defaults, then the YAML file named by
// RAIDSIGN_CONFIG (if set), then environment variables.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - BotConfig: Discord token, command prefix, per-command timeout
//   - DatabaseConfig: store driver (surrealdb or memory) and SurrealDB connection
//   - RaidConfig: name and unknown-role policies, locking, cascade delete tuning
//   - RateLimitConfig: per-author command rate limit
//   - LogConfig: slog level and handler format
//
// # Environment Variables
//
//	DISCORD_TOKEN        - Bot token (required by raidbot only)
//	COMMAND_PREFIX       - Command prefix (default: !)
//	COMMAND_TIMEOUT      - Per-command deadline (default: 10s)
//	ALLOWED_GUILDS       - Comma-separated guild ids; empty allows all
//	DEDUPE_TTL           - Redelivered message window, 0 disables (default: 10m)
//	DB_DRIVER            - surrealdb or memory (default: surrealdb)
//	DB_HOST, DB_PORT     - SurrealDB endpoint (default: localhost:8000)
//	DB_NAMESPACE         - SurrealDB namespace (default: raidsign)
//	DB_DATABASE          - SurrealDB database (default: main)
//	DB_USER, DB_PASSWORD - SurrealDB credentials
//	RAID_NAME_POLICY     - first or unique (default: first)
//	UNKNOWN_ROLE_POLICY  - drop or bucket (default: drop)
//	RAID_LOCKING         - Serialize commands per raid (default: false)
//	DELETE_CHUNK_SIZE    - Signups per batch delete (default: 100)
//	DELETE_MAX_ATTEMPTS  - Cascade delete rounds (default: 3)
//	DELETE_CONCURRENCY   - Parallel batch deletes (default: 4)
//	RATE_LIMIT_ENABLED   - Per-author rate limiting (default: true)
//	RATE_LIMIT_RATE      - Commands per window (default: 5)
//	RATE_LIMIT_WINDOW    - Window length (default: 10s)
//	RATE_LIMIT_BURST     - Burst allowance (default: 3)
//	LOG_LEVEL            - debug, info, warn, error (default: info)
//	LOG_FORMAT           - json or text (default: json)
package config
