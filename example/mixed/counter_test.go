package mixed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grafana/dispatchgen/service"
	"github.com/matryer/is"
)

func TestClient(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	counter := NewCounter("hits")
	client := NewCounterClient(NewCounterDispatcher(counter))

	name, err := client.Name(ctx)
	is.NoErr(err)
	is.Equal(name, "hits")

	n, err := client.Add(ctx, 3)
	is.NoErr(err)
	is.Equal(n, 3)

	n, err = client.Add(ctx, -5)
	is.True(errors.Is(err, ErrNegative))
	is.Equal(n, 3) // the success value travels with the error

	is.NoErr(client.Reset(ctx))
	is.Equal(counter.Value(), 0)
}

func TestDispatcherResponses(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	d := NewCounterDispatcher(NewCounter("c"))

	resp, err := d.Call(ctx, CounterAddRequest{Delta: 2})
	is.NoErr(err)
	is.Equal(resp, CounterAddResponse{Value: 2})

	resp, err = d.Call(ctx, CounterNameRequest{})
	is.NoErr(err)
	is.Equal(resp, CounterNameResponse{Value: "c"})

	resp, err = d.Call(ctx, CounterResetRequest{})
	is.NoErr(err)
	is.Equal(resp, CounterResetResponse{})
}

func TestContextReachesMethod(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewCounterClient(NewCounterDispatcher(NewCounter("c")))
	_, err := client.Add(ctx, 1)
	is.True(errors.Is(err, context.Canceled))
	is.True(errors.Is(client.Reset(ctx), context.Canceled))
}

func TestConcurrentAdds(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	counter := NewCounter("c")
	svc := service.ConcurrencyLimit[CounterRequest, CounterResponse](NewCounterDispatcher(counter), 4)
	client := NewCounterClient(svc)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Add(ctx, 1); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	is.Equal(counter.Value(), 100)
}

// failing answers every request with the wrong response variant.
type failing struct{}

func (failing) Ready(ctx context.Context) error {
	return nil
}

func (failing) Call(ctx context.Context, req CounterRequest) (CounterResponse, error) {
	return CounterResetResponse{}, errors.New("failed")
}

func TestClientWithMismatchedResponse(t *testing.T) {
	is := is.New(t)

	n, err := NewCounterClient(failing{}).Add(context.Background(), 1)
	is.Equal(err.Error(), "failed")
	is.Equal(n, 0)
}

type envelope struct {
	id  uint64
	req CounterRequest
}

type reply struct {
	id   uint64
	resp CounterResponse
	err  error
}

// connect serves d on the other end of a pair of channels shared by every
// call, and returns a service sending requests down them. Replies come back
// in whatever order the server finishes them.
func connect(t *testing.T, d *CounterDispatcher) CounterService {
	t.Helper()

	requests := make(chan envelope)
	replies := make(chan reply)
	pending := service.NewPending[uint64, reply]()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var served sync.WaitGroup
		for env := range requests {
			env := env
			served.Add(1)
			go func() {
				defer served.Done()
				resp, err := d.Call(context.Background(), env.req)
				replies <- reply{env.id, resp, err}
			}()
		}
		served.Wait()
		close(replies)
	}()
	go func() {
		for r := range replies {
			pending.Resolve(r.id, r)
		}
	}()
	t.Cleanup(func() {
		close(requests)
		wg.Wait()
	})

	var (
		mu   sync.Mutex
		next uint64
	)
	return service.Func[CounterRequest, CounterResponse](func(ctx context.Context, req CounterRequest) (CounterResponse, error) {
		mu.Lock()
		next++
		id := next
		mu.Unlock()

		ch, err := pending.Register(id)
		if err != nil {
			return nil, err
		}
		select {
		case requests <- envelope{id, req}:
		case <-ctx.Done():
			pending.Cancel(id)
			return nil, ctx.Err()
		}
		r, err := pending.Wait(ctx, id, ch)
		if err != nil {
			return nil, err
		}
		return r.resp, r.err
	})
}

func TestClientOverConnection(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	counter := NewCounter("remote")
	client := NewCounterClient(connect(t, NewCounterDispatcher(counter)))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Add(ctx, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		is.NoErr(err)
	}
	is.Equal(counter.Value(), 20)

	name, err := client.Name(ctx)
	is.NoErr(err)
	is.Equal(name, "remote")

	n, err := client.Add(ctx, -21)
	is.True(errors.Is(err, ErrNegative))
	is.Equal(n, 20)

	is.NoErr(client.Reset(ctx))
	is.Equal(counter.Value(), 0)
}
