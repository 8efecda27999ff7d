package notification

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
	"github.com/coozgan/acad-sub-staff-loaner-form/internal/store"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func pushResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString("")),
	}
}

func TestWorkerPool_Dispatch(t *testing.T) {
	wp := NewWorkerPool(1, store.NewMemoryStore(), &webpush.Options{})

	wp.Dispatch("C001")

	select {
	case job := <-wp.jobs:
		assert.Equal(t, "C001", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	s := store.NewMemoryStore()
	wp := NewWorkerPool(1, s, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification to each watcher", func(t *testing.T) {
		s.UpsertSubscription(model.PushSubscription{
			Endpoint: "https://push.example/watcher",
			P256DH:   "test_p256dh",
			Auth:     "test_auth",
			AssetIDs: []string{"C001"},
		})
		s.UpsertSubscription(model.PushSubscription{
			Endpoint: "https://push.example/other",
			P256DH:   "other_p256dh",
			Auth:     "other_auth",
			AssetIDs: []string{"L999"},
		})

		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://push.example/watcher", sub.Endpoint)
				assert.Equal(t, "test_p256dh", sub.Keys.P256dh)
				assert.Equal(t, "Device C001 has been returned and is available again.", string(payload))
				wg.Done()
				return pushResponse(http.StatusCreated), nil
			},
		}

		wp.Dispatch("C001")
		wg.Wait()

		_, found := s.Subscription("https://push.example/watcher")
		assert.True(t, found, "a delivered subscription must not be removed")
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		s.UpsertSubscription(model.PushSubscription{
			Endpoint: "https://push.example/expired",
			P256DH:   "expired_p256dh",
			Auth:     "expired_auth",
			AssetIDs: []string{"T003"},
		})

		var wg sync.WaitGroup
		wg.Add(1)

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				wg.Done()
				return pushResponse(http.StatusGone), nil
			},
		}

		wp.Dispatch("T003")
		wg.Wait()

		// The delete happens after the send; give the worker a moment.
		assert.Eventually(t, func() bool {
			_, found := s.Subscription("https://push.example/expired")
			return !found
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("no watchers means no sends", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("unexpected send for an unwatched asset")
				return pushResponse(http.StatusCreated), nil
			},
		}

		wp.Dispatch("UNWATCHED")
		time.Sleep(50 * time.Millisecond)
	})
}
