package schema

// Envelope is the uniform response wrapper returned by every backend endpoint.
type Envelope[T any] struct {
	ResponseSuccessful bool   `json:"responseSuccessful"`
	ResponseMessage    string `json:"responseMessage"`
	ResponseBody       T      `json:"responseBody"`
}

// NewEnvelope wraps body in a successful envelope
func NewEnvelope[T any](body T, message string) *Envelope[T] {
	return &Envelope[T]{ResponseSuccessful: true, ResponseMessage: message, ResponseBody: body}
}

// NewFailure creates an unsuccessful envelope with an empty body
func NewFailure(message string) *Envelope[any] {
	return &Envelope[any]{ResponseSuccessful: false, ResponseMessage: message}
}
