package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/SetupAnalyzer/internal/analyze"
	"github.com/Alias1177/SetupAnalyzer/internal/api/binance"
	"github.com/Alias1177/SetupAnalyzer/internal/config"
)

// MockAnalyzer implements Analyzer for testing
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, req analyze.Request) (analyze.Payload, error) {
	args := m.Called(ctx, req)
	payload, _ := args.Get(0).(analyze.Payload)
	return payload, args.Error(1)
}

func setupGinTestMode() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultSymbol:   "BTCUSDT",
		DefaultInterval: "5m",
		CandleLimit:     100,
		RSIPeriod:       14,
		EMAPeriod:       20,
		RequestTimeout:  time.Second,
		ResponseShape:   config.ShapeMinimal,
	}
}

func doRequest(router http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAnalyzeUsesDefaults(t *testing.T) {
	setupGinTestMode()

	analyzer := &MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, analyze.Request{Symbol: "BTCUSDT", Interval: "5m"}).
		Return(analyze.Payload{"setup": analyze.MessageNoTrade}, nil)

	router := NewHandler(analyzer, testConfig()).SetupRoutes()
	w := doRequest(router, http.MethodGet, "/analyze", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"setup":"❕ No clear setup"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))
	analyzer.AssertExpectations(t)
}

func TestAnalyzeQueryParameters(t *testing.T) {
	setupGinTestMode()

	tests := []struct {
		name     string
		fixed    bool
		target   string
		expected analyze.Request
	}{
		{"query overrides", false, "/analyze?symbol=ethusdt&interval=1m", analyze.Request{Symbol: "ethusdt", Interval: "1m"}},
		{"empty values fall back", false, "/analyze?symbol=&interval=", analyze.Request{Symbol: "BTCUSDT", Interval: "5m"}},
		{"fixed params ignore query", true, "/analyze?symbol=ethusdt&interval=1m", analyze.Request{Symbol: "BTCUSDT", Interval: "5m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.FixedParams = tt.fixed

			analyzer := &MockAnalyzer{}
			analyzer.On("Analyze", mock.Anything, tt.expected).Return(analyze.Payload{"setup": "x"}, nil)

			w := doRequest(NewHandler(analyzer, cfg).SetupRoutes(), http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			analyzer.AssertExpectations(t)
		})
	}
}

func TestAnalyzeErrorIsInternal(t *testing.T) {
	setupGinTestMode()

	analyzer := &MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	w := doRequest(NewHandler(analyzer, testConfig()).SetupRoutes(), http.MethodGet, "/analyze", map[string]string{
		RequestIDHeaderKey: "req-1",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.Equal(t, "req-1", body["request_id"])
}

func TestCORS(t *testing.T) {
	setupGinTestMode()

	analyzer := &MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analyze.Payload{"setup": "x"}, nil)
	router := NewHandler(analyzer, testConfig()).SetupRoutes()

	t.Run("simple request without origin", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/analyze", nil)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("origin is echoed with credentials", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/analyze", map[string]string{"Origin": "https://app.example"})
		assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := doRequest(router, http.MethodOptions, "/analyze", map[string]string{
			"Origin":                         "https://app.example",
			"Access-Control-Request-Method":  "GET",
			"Access-Control-Request-Headers": "X-Custom",
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "X-Custom", w.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestRateLimit(t *testing.T) {
	setupGinTestMode()

	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 1

	analyzer := &MockAnalyzer{}
	analyzer.On("Analyze", mock.Anything, mock.Anything).Return(analyze.Payload{"setup": "x"}, nil)
	router := NewHandler(analyzer, cfg).SetupRoutes()

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/analyze", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, http.MethodGet, "/analyze", nil).Code)
	// health is never limited
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health", nil).Code)
}

func TestHealthCheck(t *testing.T) {
	setupGinTestMode()

	w := doRequest(NewHandler(&MockAnalyzer{}, testConfig()).SetupRoutes(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, ServiceName, body["service"])
}

// End to end: mocked Binance -> real client -> pipeline -> router.
func TestAnalyzeEndToEndEmptyUpstream(t *testing.T) {
	setupGinTestMode()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	client := binance.NewClient(binance.ClientOptions{BaseURL: upstream.URL, RequestTimeout: cfg.RequestTimeout})
	svc := analyze.NewService(client, nil, analyze.OptionsFromConfig(cfg))

	w := doRequest(NewHandler(svc, cfg).SetupRoutes(), http.MethodGet, "/analyze?symbol=btcusdt&interval=5m", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"setup":"no data available"}`, w.Body.String())
}

func TestAnalyzeEndToEndStrictUpstreamError(t *testing.T) {
	setupGinTestMode()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.StrictMode = true
	client := binance.NewClient(binance.ClientOptions{BaseURL: upstream.URL, RequestTimeout: cfg.RequestTimeout})
	svc := analyze.NewService(client, nil, analyze.OptionsFromConfig(cfg))

	w := doRequest(NewHandler(svc, cfg).SetupRoutes(), http.MethodGet, "/analyze?symbol=nope", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
