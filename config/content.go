package config

// Content holds the tunables of the post lifecycle and listings
type Content struct {
	ExcerptLength    int
	DefaultPageSize  int
	MaxPageSize      int
	FeaturedLimit    int
	RestampOnPublish bool
}

// LoadContent reads content tunables, falling back to the documented defaults
func LoadContent(c map[string]string) Content {
	content := Content{
		ExcerptLength:    GetInt(c, "EXCERPT_LENGTH", 100),
		DefaultPageSize:  GetInt(c, "DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:      GetInt(c, "MAX_PAGE_SIZE", 100),
		FeaturedLimit:    GetInt(c, "FEATURED_LIMIT", 4),
		RestampOnPublish: GetBool(c, "PUBLISH_RESTAMP", true),
	}
	if content.DefaultPageSize <= 0 {
		content.DefaultPageSize = 10
	}
	if content.MaxPageSize < content.DefaultPageSize {
		content.MaxPageSize = content.DefaultPageSize
	}
	if content.FeaturedLimit <= 0 {
		content.FeaturedLimit = 4
	}
	return content
}
