package svc

import "fmt"

// ErrProtocolExtraction is returned when a protocol could not be extracted
// from a Req or Resp.
type ErrProtocolExtraction struct {
	Protocol string
}

func (e ErrProtocolExtraction) Error() string {
	return fmt.Sprintf(
		"Failed to extract protocol: %s", e.Protocol)
}
