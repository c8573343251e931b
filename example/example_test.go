package example_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/grafana/dispatchgen/example"
	"github.com/grafana/dispatchgen/service"
	"github.com/matryer/is"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

// countingService wraps an ExampleService and records what reaches it.
type countingService struct {
	inner    example.ExampleService
	notReady error

	mu       sync.Mutex
	events   []string
	requests []example.ExampleRequest
}

func (s *countingService) Ready(ctx context.Context) error {
	s.mu.Lock()
	s.events = append(s.events, "ready")
	s.mu.Unlock()
	if s.notReady != nil {
		return s.notReady
	}
	return s.inner.Ready(ctx)
}

func (s *countingService) Call(ctx context.Context, req example.ExampleRequest) (string, error) {
	s.mu.Lock()
	s.events = append(s.events, "call")
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.inner.Call(ctx, req)
}

func newClient() (*example.ExampleClient, *countingService) {
	svc := &countingService{inner: example.NewExampleDispatcher(example.Example{})}
	return example.NewExampleClient(svc), svc
}

func TestClientMatchesDirectCalls(t *testing.T) {
	ctx := context.Background()
	impl := example.Example{}
	client, _ := newClient()

	tests := []struct {
		name   string
		direct func(context.Context, string) (string, error)
		proxy  func(context.Context, string) (string, error)
	}{
		{"Echo", impl.Echo, client.Echo},
		{"Reverse", impl.Reverse, client.Reverse},
	}

	for _, tt := range tests {
		for _, in := range []string{"hi", "abc", "", "héllo"} {
			t.Run(tt.name+"/"+in, func(t *testing.T) {
				is := is.New(t)
				want, wantErr := tt.direct(ctx, in)
				got, err := tt.proxy(ctx, in)
				is.Equal(got, want)
				is.Equal(err, wantErr)
			})
		}
	}
}

func TestClient(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	client, svc := newClient()

	out, err := client.Echo(ctx, "hi")
	is.NoErr(err)
	is.Equal(out, "hi")

	out, err = client.Reverse(ctx, "abc")
	is.NoErr(err)
	is.Equal(out, "cba")

	_, err = client.Echo(ctx, "")
	is.True(errors.Is(err, example.ErrEmptyString))

	_, err = client.Reverse(ctx, "")
	is.True(errors.Is(err, example.ErrEmptyString))

	// readiness is checked exactly once, right before each call
	is.Equal(svc.events, []string{"ready", "call", "ready", "call", "ready", "call", "ready", "call"})
	is.Equal(svc.requests, []example.ExampleRequest{
		example.ExampleEchoRequest{String: "hi"},
		example.ExampleReverseRequest{String: "abc"},
		example.ExampleEchoRequest{String: ""},
		example.ExampleReverseRequest{String: ""},
	})
}

func TestClientNotReady(t *testing.T) {
	is := is.New(t)
	client, svc := newClient()
	notReady := errors.New("not ready")
	svc.notReady = notReady

	out, err := client.Echo(context.Background(), "hi")
	is.Equal(err, notReady)
	is.Equal(out, "")
	is.Equal(svc.events, []string{"ready"}) // no call without readiness
}

func TestDispatcher(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	d := example.NewExampleDispatcher(example.Example{})

	is.NoErr(d.Ready(ctx))

	out, err := d.Call(ctx, example.ExampleReverseRequest{String: "dispatch"})
	is.NoErr(err)
	is.Equal(out, "hctapsid")

	_, err = d.Call(ctx, example.ExampleEchoRequest{})
	is.Equal(err, example.ErrEmptyString)
}

func TestConcurrentClients(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	var peak, active atomic.Int64
	inner := example.NewExampleDispatcher(example.Example{})
	observed := service.Func[example.ExampleRequest, string](func(ctx context.Context, req example.ExampleRequest) (string, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return inner.Call(ctx, req)
	})
	client := example.NewExampleClient(service.ConcurrencyLimit[example.ExampleRequest, string](observed, 3))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := fmt.Sprintf("call-%d", i)
			out, err := client.Echo(ctx, in)
			if err == nil && out != in {
				err = fmt.Errorf("got %q, want %q", out, in)
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		is.NoErr(err)
	}
	is.True(peak.Load() <= 3)
}

func TestMiddlewareStack(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	core, logs := observer.New(zapcore.DebugLevel)
	svc := service.Chain(
		service.Service[example.ExampleRequest, string](example.NewExampleDispatcher(example.Example{})),
		service.WithLogger[example.ExampleRequest, string](zap.New(core)),
		service.WithRateLimit[example.ExampleRequest, string](rate.NewLimiter(rate.Every(time.Hour), 2)),
	)
	client := example.NewExampleClient(svc)

	out, err := client.Reverse(ctx, "ab")
	is.NoErr(err)
	is.Equal(out, "ba")

	_, err = client.Echo(ctx, "")
	is.Equal(err, example.ErrEmptyString)

	// the limiter's burst is spent; a bounded wait fails before the call
	short, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	_, err = client.Echo(short, "late")
	is.True(err != nil)

	served := logs.FilterMessage("call served").AllUntimed()
	is.Equal(len(served), 1)
	is.Equal(served[0].ContextMap()["request"], "example.ExampleReverseRequest")
	is.Equal(logs.FilterMessage("call failed").Len(), 1)
	is.Equal(logs.FilterMessage("service not ready").Len(), 1)
}

func Example_client() {
	ctx := context.Background()
	client := example.NewExampleClient(example.NewExampleDispatcher(example.Example{}))

	out, err := client.Reverse(ctx, "dispatch")
	fmt.Println(out, err)

	_, err = client.Echo(ctx, "")
	fmt.Println(err)
	// Output:
	// hctapsid <nil>
	// empty string
}
