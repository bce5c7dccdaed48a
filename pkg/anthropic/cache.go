package anthropic

// BuildCachedSystemBlocks constructs a single system block with an ephemeral
// cache breakpoint. Fixed rubrics sent on every crawl hit the warm cache.
func BuildCachedSystemBlocks(text, ttl string) []SystemBlock {
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: ttl,
			},
		},
	}
}
