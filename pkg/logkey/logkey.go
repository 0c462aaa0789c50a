package logkey

// keys shared by every structured log record of the service
const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
	Session = "SESSION ID"
	Order   = "ORDER NUMBER"
)
