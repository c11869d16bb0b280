package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNavigation represents a failure to acquire the browsing session
	ErrorTypeNavigation ErrorType = "navigation"
	// ErrorTypePageTimeout represents a timed-out page load
	ErrorTypePageTimeout ErrorType = "page_timeout"
	// ErrorTypeDomainQuery represents a failure querying one external domain
	ErrorTypeDomainQuery ErrorType = "domain_query"
	// ErrorTypeParsing represents HTML or value parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting by a source
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeSink represents tabular sink errors
	ErrorTypeSink ErrorType = "sink"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// PipelineError represents a pipeline-specific error
type PipelineError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error must abort the whole run.
// Only the inability to acquire the browsing session is run-fatal;
// everything else degrades to a sentinel or an empty contribution.
func (e *PipelineError) IsFatal() bool {
	return e.Type == ErrorTypeNavigation || e.Type == ErrorTypeConfiguration
}

// New creates a new PipelineError
func New(errType ErrorType, source, message string, err error) *PipelineError {
	return &PipelineError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNavigation creates a new navigation-acquisition error
func NewNavigation(source, message string, err error) *PipelineError {
	return New(ErrorTypeNavigation, source, message, err)
}

// NewPageTimeout creates a new page-load timeout error
func NewPageTimeout(source, message string, err error) *PipelineError {
	return New(ErrorTypePageTimeout, source, message, err)
}

// NewDomainQuery creates a new external-domain query error
func NewDomainQuery(source, message string, err error) *PipelineError {
	return New(ErrorTypeDomainQuery, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *PipelineError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *PipelineError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewSink creates a new sink error
func NewSink(source, message string, err error) *PipelineError {
	return New(ErrorTypeSink, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *PipelineError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *PipelineError {
	return New(ErrorTypeConfiguration, "", message, err)
}
