package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/velox/url-shortener/internal/config"
	"github.com/velox/url-shortener/internal/model"
	"github.com/velox/url-shortener/internal/proto"
)

var noRedirect = &http.Client{
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func shorten(t *testing.T, serverURL, original string) (*http.Response, model.ShortenedURL) {
	t.Helper()

	body, err := json.Marshal(model.ShortenRequest{Original: original})
	require.NoError(t, err)

	resp, err := noRedirect.Post(serverURL+"/shorten", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var result model.ShortenedURL
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	}
	return resp, result
}

func TestApp_Integration(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		ServerAddress:  ":0",
		BaseURL:        "http://localhost:8082",
		Store:          config.StoreRedis,
		RedisURL:       "redis://" + mr.Addr(),
		RedisMaxActive: 4,
		RedisMaxIdle:   2,
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.store.Close()

	server := httptest.NewServer(app.handler)
	defer server.Close()

	resp, first := shorten(t, server.URL, "https://example.com/page")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://example.com/page", first.Original)
	require.True(t, strings.HasPrefix(first.Shortened, cfg.BaseURL+"/"))

	_, second := shorten(t, server.URL, "https://example.com/page")

	for _, shortened := range []string{first.Shortened, second.Shortened} {
		code := strings.TrimPrefix(shortened, cfg.BaseURL+"/")

		stored, err := mr.Get(code)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/page", stored)

		resp, err := noRedirect.Get(server.URL + "/" + code)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusPermanentRedirect, resp.StatusCode)
		assert.Equal(t, "https://example.com/page", resp.Header.Get("Location"))
	}

	resp, err = noRedirect.Get(server.URL + "/neverissued")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = noRedirect.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_UnreachableStore(t *testing.T) {
	cfg := &config.Config{
		BaseURL:             "http://localhost:8082",
		Store:               config.StoreRedis,
		RedisURL:            "redis://127.0.0.1:1",
		RedisMaxActive:      2,
		RedisConnectTimeout: time.Second,
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.store.Close()

	server := httptest.NewServer(app.handler)
	defer server.Close()

	resp, err := noRedirect.Get(server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = shorten(t, server.URL, "https://example.com")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = noRedirect.Get(server.URL + "/abc123")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = shorten(t, server.URL, "not-a-url")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApp_FileStore(t *testing.T) {
	cfg := &config.Config{
		BaseURL:         "http://localhost:8082",
		Store:           config.StoreFile,
		FileStoragePath: filepath.Join(t.TempDir(), "velox.jsonl"),
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.store.Close()

	server := httptest.NewServer(app.handler)
	defer server.Close()

	resp, result := shorten(t, server.URL, "https://example.com/file")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := strings.TrimPrefix(result.Shortened, cfg.BaseURL+"/")

	reopened, err := NewApp(cfg)
	require.NoError(t, err)
	defer reopened.store.Close()
	original, found, err := reopened.store.Get(context.Background(), code)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://example.com/file", original)
}

func TestNewApp_UnknownStore(t *testing.T) {
	_, err := NewApp(&config.Config{Store: "cassandra"})
	assert.Error(t, err)
}

func freeAddr(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())
	return addr
}

func TestApp_Run(t *testing.T) {
	cfg := &config.Config{
		ServerAddress: freeAddr(t),
		GRPCAddress:   freeAddr(t),
		BaseURL:       "http://localhost:8082",
		Store:         config.StoreMemory,
	}

	app, err := NewApp(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.ServerAddress + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	conn, err := grpc.NewClient(cfg.GRPCAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	rpcCtx, rpcCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer rpcCancel()

	client := proto.NewShortenerClient(conn)
	shortened, err := client.Shorten(rpcCtx, wrapperspb.String("https://example.com/grpc"), grpc.WaitForReady(true))
	require.NoError(t, err)

	code := strings.TrimPrefix(shortened.GetValue(), cfg.BaseURL+"/")
	original, err := client.Resolve(rpcCtx, wrapperspb.String(code))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/grpc", original.GetValue())

	health, err := healthpb.NewHealthClient(conn).Check(rpcCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
