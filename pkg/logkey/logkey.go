package logkey

const (
	TraceID = "TRACE ID"
	ERROR   = "ERROR"
	OrderID = "OrderID"
	Session = "CartSession"
)
