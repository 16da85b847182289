package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectorAssertEmptyOnEmptyCollector(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	require.True(t, c.IsEmpty())
	require.False(t, c.IsNotEmpty())
	require.NoError(t, c.AssertEmpty())
	require.Nil(t, c.Failure())
}

func TestCollectorSingleFailureIsReturnedUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := NewCollector()
	c.Execute(func() error { return boom })

	require.True(t, c.IsNotEmpty())
	require.Same(t, boom, c.AssertEmpty())
}

func TestCollectorKeepsFirstFailureAndSuppressesLaterOnes(t *testing.T) {
	t.Parallel()

	first := errors.New("before each failed")
	second := errors.New("after each failed")

	c := NewCollector()
	c.Execute(func() error { return first })

	ran := false
	c.Execute(func() error {
		ran = true
		return second
	})
	require.True(t, ran, "execute must run its action even after a failure")

	err := c.AssertEmpty()
	require.Error(t, err)
	require.ErrorIs(t, err, first)
	require.NotErrorIs(t, err, second)

	var collected *Error
	require.ErrorAs(t, err, &collected)
	require.Same(t, first, collected.Primary())
	require.Equal(t, []error{second}, collected.Suppressed())
	require.Equal(t, []error{second}, Suppressed(err))
	require.Equal(t, "before each failed (suppressed: after each failed)", err.Error())
}

func TestCollectorRecoversPanics(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.Execute(func() error { panic("kaboom") })

	var panicErr *PanicError
	require.ErrorAs(t, c.AssertEmpty(), &panicErr)
	require.Equal(t, "kaboom", panicErr.Value)
	require.NotEmpty(t, panicErr.Stack)
	require.Equal(t, "panic: kaboom", panicErr.Error())
}

func TestPanicErrorUnwrapsErrorValues(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := Run(func() error { panic(cause) })
	require.ErrorIs(t, err, cause)
}

func TestCollectorIgnoresNilAdds(t *testing.T) {
	t.Parallel()

	c := NewCollector()
	c.Add(nil)
	c.Execute(func() error { return nil })
	require.True(t, c.IsEmpty())
}

func TestAbort(t *testing.T) {
	t.Parallel()

	err := Abort("assumption %s failed", "x > 0")
	require.True(t, IsAborted(err))
	require.Equal(t, "aborted: assumption x > 0 failed", err.Error())
	require.False(t, IsAborted(errors.New("plain")))

	c := NewCollector()
	c.Add(err)
	c.Add(errors.New("later"))
	require.True(t, IsAborted(c.AssertEmpty()))
}
