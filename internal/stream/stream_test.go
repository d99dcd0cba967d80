package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func collect(s *Stream[string]) []string {
	var out []string
	for s.Next() {
		out = append(out, s.Current())
	}
	return out
}

func TestFromSlice(t *testing.T) {
	s := FromSlice([]string{"Hel", "lo"}, nil)
	assert.Equal(t, []string{"Hel", "lo"}, collect(s))
	assert.NoError(t, s.Err())
	assert.False(t, s.Next())
}

func TestFromSlice_ErrorAfterItems(t *testing.T) {
	boom := errors.New("boom")
	s := FromSlice([]string{"a", "b"}, boom)

	assert.Equal(t, []string{"a", "b"}, collect(s))
	assert.ErrorIs(t, s.Err(), boom)
	assert.False(t, s.Next())
}

func TestNew_ProducerGoroutine(t *testing.T) {
	c := make(chan string)
	errC := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		defer close(c)
		defer close(errC)
		for _, f := range []string{"x", "y", "z"} {
			select {
			case c <- f:
			case <-done:
				return
			}
		}
	}()

	s := New(c, errC).WithStop(func() { close(done) })
	defer s.Close()

	assert.Equal(t, []string{"x", "y", "z"}, collect(s))
	assert.NoError(t, s.Err())
}

func TestClose_StopsProducer(t *testing.T) {
	c := make(chan int)
	errC := make(chan error, 1)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer close(c)
		defer close(errC)
		for i := 0; ; i++ {
			select {
			case c <- i:
			case <-done:
				return
			}
		}
	}()

	s := New(c, errC).WithStop(func() { close(done) })
	assert.True(t, s.Next())
	assert.Equal(t, 0, s.Current())
	s.Close()
	s.Close()
	<-exited
}
