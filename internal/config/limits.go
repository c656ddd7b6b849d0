package config

const (
	// MaxNameLength is the maximum length for folder and subscription
	// names. Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxNameLength = 255
)
