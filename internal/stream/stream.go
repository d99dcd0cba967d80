// Package stream provides a lazy, pull-based sequence fed by a producer goroutine.
package stream

// Stream represents a generic stream of data.
type Stream[T any] struct {
	C    <-chan T
	errC <-chan error
	stop func()

	curr T
	err  error
}

// New wraps a value channel and an error channel. The producer closes c when
// done and sends at most one error on errC.
func New[T any](c <-chan T, errC <-chan error) *Stream[T] {
	return &Stream[T]{
		C:    c,
		errC: errC,
	}
}

// WithStop registers a function run by Close to release the producer.
func (s *Stream[T]) WithStop(stop func()) *Stream[T] {
	s.stop = stop
	return s
}

// FromSlice returns a stream that yields items and then ends. A non-nil err
// is reported after the last item.
func FromSlice[T any](items []T, err error) *Stream[T] {
	c := make(chan T, len(items))
	errC := make(chan error, 1)
	for _, item := range items {
		c <- item
	}
	if err != nil {
		errC <- err
	}
	close(c)
	close(errC)
	return New(c, errC)
}

// Next advances the stream to the next item.
// It returns false if there are no more items or an error occurred.
// Values already produced are delivered before a pending error.
func (s *Stream[T]) Next() bool {
	if s.err != nil {
		return false
	}
	select {
	case event, ok := <-s.C:
		return s.receive(event, ok)
	default:
	}

	select {
	case event, ok := <-s.C:
		return s.receive(event, ok)
	case err, ok := <-s.errC:
		if ok && err != nil {
			s.err = err
			return false
		}
		// error channel closed without error: drain remaining values
		event, ok := <-s.C
		return s.receive(event, ok)
	}
}

func (s *Stream[T]) receive(event T, ok bool) bool {
	if !ok {
		// Channel closed, check for error (non-blocking)
		select {
		case err := <-s.errC:
			s.err = err
		default:
		}
		return false
	}
	s.curr = event
	return true
}

// Current returns the current item in the stream.
func (s *Stream[T]) Current() T {
	return s.curr
}

// Err returns the error encountered during streaming, if any.
func (s *Stream[T]) Err() error {
	return s.err
}

// Close stops the producer. It is safe to call more than once.
func (s *Stream[T]) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
