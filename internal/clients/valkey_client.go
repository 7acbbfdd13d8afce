package clients

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/commentflow/config"
	"github.com/valkey-io/valkey-go"
)

type ValkeyClient struct {
	client valkey.Client
	opts   valkey.ClientOption
	mu     sync.Mutex
}

func valkeyOptions(cfg config.ValkeyConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func NewValkeyClient(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	opts := valkeyOptions(cfg)
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", cfg.Address))
	return &ValkeyClient{client: client, opts: opts}, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

// GetBytes returns nil without error when key does not exist.
func (vc *ValkeyClient) GetBytes(ctx context.Context, key string) ([]byte, error) {
	res := vc.DoWithRetry(ctx, func(client valkey.Client) valkey.Completed {
		return client.B().Get().Key(key).Build()
	}, 3)

	data, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (vc *ValkeyClient) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	res := vc.DoWithRetry(ctx, func(client valkey.Client) valkey.Completed {
		return client.B().Set().Key(key).Value(valkey.BinaryString(value)).ExSeconds(int64(ttl.Seconds())).Build()
	}, 3)
	return res.Error()
}

// DoWithRetry sends a command built by build, retrying connection failures.
// A sent command is recycled by the client, so every attempt builds a new one.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	_ = retryOnConnectionError(ctx, retries, 250*time.Millisecond, func(attempt int) error {
		client := vc.current()
		result = client.Do(ctx, build(client))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			return nil
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return err
	})

	return result
}

var sleepCtx = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryOnConnectionError calls attempt up to retries times, waiting delay
// between calls. It stops at the first error that is not a connection error.
func retryOnConnectionError(ctx context.Context, retries int, delay time.Duration, attempt func(n int) error) error {
	var err error
	for i := 1; i <= retries; i++ {
		err = attempt(i)
		if err == nil || !isConnectionError(err) || i == retries {
			return err
		}
		if waitErr := sleepCtx(ctx, delay); waitErr != nil {
			return err
		}
	}
	return err
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := valkey.IsValkeyErr(err); ok {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
