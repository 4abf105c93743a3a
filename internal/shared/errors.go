package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing YouTube API key")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrChannelNotFound    = fmt.Errorf("channel not found")

	// Input validation errors
	ErrEmptyInput      = fmt.Errorf("no video URLs or IDs provided")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Job errors
	ErrJobNotFound    = fmt.Errorf("job not found")
	ErrJobNotRunning  = fmt.Errorf("job is not running")
	ErrJobNotComplete = fmt.Errorf("job not completed yet")
)
