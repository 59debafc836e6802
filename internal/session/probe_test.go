package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// fakeSource отдаёт события из канала и запоминает контекст наблюдения,
// чтобы тесты могли проверить, что слушатель освобождён.
type fakeSource struct {
	events  chan *Identity
	err     error
	mu      sync.Mutex
	watched []context.Context
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan *Identity)}
}

func (f *fakeSource) Watch(ctx context.Context) (<-chan *Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	f.watched = append(f.watched, ctx)
	f.mu.Unlock()
	return f.events, nil
}

func (f *fakeSource) lastWatch(t *testing.T) context.Context {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.watched)
	return f.watched[len(f.watched)-1]
}

type recorder struct {
	mu    sync.Mutex
	calls []*Identity
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) callback(ident *Identity) {
	r.mu.Lock()
	r.calls = append(r.calls, ident)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.ch:
	case <-time.After(time.Second):
		t.Fatal("callback was not invoked")
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder) at(i int) *Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func alice() *Identity { return NewIdentity("s1", "alice", "alice@example.com", StaticToken("a")) }
func bob() *Identity   { return NewIdentity("s1", "bob", "bob@example.com", StaticToken("b")) }

func TestProbe_NotReadyUntilFirstResolution(t *testing.T) {
	src := newFakeSource()
	rec := newRecorder()
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), rec.callback)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	time.Sleep(20 * time.Millisecond)
	assert.False(t, sub.Ready())
	assert.Equal(t, 0, rec.count())

	src.events <- nil
	rec.wait(t)

	assert.True(t, sub.Ready())
	assert.Equal(t, 1, rec.count())
	assert.Nil(t, rec.at(0))
}

func TestProbe_DeliversOnlyTransitions(t *testing.T) {
	src := newFakeSource()
	rec := newRecorder()
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), rec.callback)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	src.events <- nil
	rec.wait(t)
	src.events <- nil // без изменений
	src.events <- alice()
	rec.wait(t)
	src.events <- alice() // та же личность
	src.events <- bob()
	rec.wait(t)
	src.events <- nil
	rec.wait(t)

	require.Equal(t, 4, rec.count())
	assert.Nil(t, rec.at(0))
	assert.Equal(t, "alice", rec.at(1).UserUID)
	assert.Equal(t, "bob", rec.at(2).UserUID)
	assert.Nil(t, rec.at(3))
}

func TestProbe_ReadyNeverFlipsBack(t *testing.T) {
	src := newFakeSource()
	rec := newRecorder()
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), rec.callback)
	require.NoError(t, err)

	src.events <- alice()
	rec.wait(t)
	assert.True(t, sub.Ready())

	src.events <- nil
	rec.wait(t)
	assert.True(t, sub.Ready())

	sub.Unsubscribe()
	assert.True(t, sub.Ready())
}

func TestProbe_UnsubscribeStopsCallbacksAndReleasesListener(t *testing.T) {
	src := newFakeSource()
	rec := newRecorder()
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), rec.callback)
	require.NoError(t, err)

	src.events <- alice()
	rec.wait(t)

	sub.Unsubscribe()
	sub.Unsubscribe()

	select {
	case <-src.lastWatch(t).Done():
	case <-time.After(time.Second):
		t.Fatal("source listener was not released")
	}
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription goroutine did not exit")
	}

	select {
	case src.events <- bob():
		t.Fatal("event consumed after unsubscribe")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, 1, rec.count())
}

func TestProbe_TeardownBeforeFirstResolution(t *testing.T) {
	src := newFakeSource()
	rec := newRecorder()
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), rec.callback)
	require.NoError(t, err)

	sub.Unsubscribe()
	<-sub.Done()

	assert.False(t, sub.Ready())
	assert.Equal(t, 0, rec.count())
	assert.Error(t, src.lastWatch(t).Err())
}

func TestProbe_ParentContextCancelReleasesListener(t *testing.T) {
	src := newFakeSource()
	probe := NewProbe(src, sl.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := probe.OnChange(ctx, func(*Identity) {})
	require.NoError(t, err)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("subscription leaked after parent cancel")
	}
	sub.Unsubscribe()
}

func TestProbe_WatchError(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("store down")
	probe := NewProbe(src, sl.Discard())

	sub, err := probe.OnChange(context.Background(), func(*Identity) {})
	assert.Nil(t, sub)
	assert.EqualError(t, err, "store down")
}

func TestProbe_First(t *testing.T) {
	src := newFakeSource()
	probe := NewProbe(src, sl.Discard())

	go func() { src.events <- alice() }()

	ident, err := probe.First(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", ident.UserUID)

	select {
	case <-src.lastWatch(t).Done():
	case <-time.After(time.Second):
		t.Fatal("First left the subscription open")
	}
}

func TestProbe_FirstSignedOut(t *testing.T) {
	src := newFakeSource()
	probe := NewProbe(src, sl.Discard())

	go func() { src.events <- nil }()

	ident, err := probe.First(context.Background())
	require.NoError(t, err)
	assert.Nil(t, ident)
	assert.False(t, ident.SignedIn())
}

func TestProbe_FirstWaitsWithoutTimeoutUntilContextEnds(t *testing.T) {
	src := newFakeSource()
	probe := NewProbe(src, sl.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ident, err := probe.First(ctx)
	assert.Nil(t, ident)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIdentity_Same(t *testing.T) {
	var none *Identity
	assert.True(t, none.Same(nil))
	assert.False(t, none.Same(alice()))
	assert.False(t, alice().Same(nil))
	assert.True(t, alice().Same(alice()))
	assert.False(t, alice().Same(bob()))
}

func TestIdentity_Token(t *testing.T) {
	var none *Identity
	_, err := none.Token(context.Background())
	assert.ErrorIs(t, err, ErrSignedOut)

	_, err = NewIdentity("s", "u", "e", nil).Token(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)

	token, err := alice().Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", token)
}
