package errors

// UserError is the interface an error has to comply to to be consumable by an
// external client of the service. It carries the HTTP status to respond with
// as well as a stable error code and human-readable message.
type UserError interface {
	Status() int
	Code() string
	Message() string
	Cause() error
}

// ConcreteUserError is the materialization of a UserError for marshalling.
type ConcreteUserError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Build constructs a ConcreteUserError from a UserError.
func Build(err UserError) ConcreteUserError {
	return ConcreteUserError{
		Status:  err.Status(),
		Code:    err.Code(),
		Message: err.Message(),
	}
}

// ExtractUserError extracts the most recent UserError attached to the error
// chain if any, returning nil otherwise.
func ExtractUserError(err error) UserError {
	for err != nil {
		switch e := err.(type) {
		case *wrap:
			if e.errStatus != 0 {
				return e
			}
			err = e.previous
		case UserError:
			return e
		default:
			return nil
		}
	}
	return nil
}
