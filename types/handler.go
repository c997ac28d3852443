package types

// Handler is a single stage of a mail pipeline.
// It returns either the Mail it was given, a newly constructed Mail that
// replaces it, or a non-nil error which rejects the Mail.
// Handlers that also implement fmt.Stringer are reported by that name in logs.
type Handler interface {
	Process(Mail) (Mail, error)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(Mail) (Mail, error)

func (f HandlerFunc) Process(m Mail) (Mail, error) {
	return f(m)
}
