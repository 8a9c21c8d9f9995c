package summarize

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

var (
	WithRun            = withRun
	WithGOOS           = withGOOS
	WithChatCompleter  = withChatCompleter
	WithGenerator      = withGenerator
	WithMessageCreator = withMessageCreator
)

// ClassifyTransportError exposes the shared HTTP error mapping.
var ClassifyTransportError = classifyTransportError

// TruncateUTF8 exposes the stderr excerpt truncation.
var TruncateUTF8 = truncateUTF8
