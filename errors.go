package txrx

import "errors"

var (
	// ErrClosed is returned for operations on a closed Channel.
	ErrClosed = errors.New("txrx: channel closed")
	// ErrTopicNotRegistered is returned by the typed API when a topic has
	// no payload type bound via RegisterTopic.
	ErrTopicNotRegistered = errors.New("txrx: topic not registered")
	// ErrTopicTypeMismatch is returned when a topic's bound payload type
	// does not match the type a typed call was made with.
	ErrTopicTypeMismatch = errors.New("txrx: topic payload type mismatch")
)
