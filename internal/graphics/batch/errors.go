package batch

import "errors"

var (
	// ErrBufferOverflow reports triangles dropped because a job buffer was full.
	// Triangles accepted earlier in the batch are kept.
	ErrBufferOverflow = errors.New("batch: job buffer capacity exceeded")

	// ErrUnknownLayout reports a primitive layout outside the table.
	ErrUnknownLayout = errors.New("batch: unrecognized primitive layout")

	// ErrMalformedPolygon reports a submission that breaks the input contract.
	ErrMalformedPolygon = errors.New("batch: malformed polygon")

	// ErrBatchActive is returned by Begin while a batch is already open.
	ErrBatchActive = errors.New("batch: batch already open")

	// ErrBatchInactive is returned when submitting or flushing without Begin.
	ErrBatchInactive = errors.New("batch: no open batch")
)
