package anthropic

// BuildCachedSystemBlocks wraps a long, stable system prompt in a single
// block marked for prompt caching with the given TTL ("5m" or "1h").
// Repeated extractions with the same prompt then read it from cache.
func BuildCachedSystemBlocks(text, ttl string) []SystemBlock {
	if ttl == "" {
		ttl = "5m"
	}
	return []SystemBlock{{
		Text:         text,
		CacheControl: &CacheControl{TTL: ttl},
	}}
}

// Float returns a pointer to v, for MessageRequest.Temperature.
func Float(v float64) *float64 { return &v }
