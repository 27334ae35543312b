package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func createTestLogger() (*zap.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	core := zapcore.NewCore(encoder, zapcore.AddSync(buf), zapcore.DebugLevel)
	logger := zap.New(core)
	return logger, buf
}

func TestRequestID_SetsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-ID")
	if requestID == "" {
		t.Error("Expected X-Request-ID header to be set")
	}

	// UUID should be 36 characters (8-4-4-4-12 format)
	if len(requestID) != 36 {
		t.Errorf("Expected UUID format (36 chars), got '%s' (%d chars)", requestID, len(requestID))
	}
}

func TestRequestID_UsesProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	providedID := "custom-request-id-123"

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", providedID)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-ID")
	if requestID != providedID {
		t.Errorf("Expected request ID '%s', got '%s'", providedID, requestID)
	}
}

func TestRequestID_AvailableInContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())

	var capturedRequestID string

	router.GET("/test", func(c *gin.Context) {
		capturedRequestID = GetRequestID(c)
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	responseRequestID := w.Header().Get("X-Request-ID")
	if capturedRequestID != responseRequestID {
		t.Errorf("Context request ID '%s' doesn't match response header '%s'", capturedRequestID, responseRequestID)
	}
}

func TestGetRequestID_NoMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var capturedRequestID string

	router.GET("/test", func(c *gin.Context) {
		capturedRequestID = GetRequestID(c)
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if capturedRequestID != "" {
		t.Errorf("Expected empty string when middleware not used, got '%s'", capturedRequestID)
	}
}

func TestLogger_LogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, buf := createTestLogger()

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger))

	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("GET", "/test?foo=bar", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if buf.Len() == 0 {
		t.Fatal("Expected request to be logged")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}

	if entry["method"] != "GET" {
		t.Errorf("Expected method GET, got %v", entry["method"])
	}
	if entry["path"] != "/test" {
		t.Errorf("Expected path /test, got %v", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("Expected status 200, got %v", entry["status"])
	}
	if entry["request_id"] == "" {
		t.Error("Expected request_id field to be set")
	}
}

func TestLogger_ServerErrorLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, buf := createTestLogger()

	router := gin.New()
	router.Use(Logger(logger))

	router.GET("/fail", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "fail")
	})

	req := httptest.NewRequest("GET", "/fail", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}

	if entry["level"] != "error" {
		t.Errorf("Expected error level for 5xx response, got %v", entry["level"])
	}
}

func TestRecovery_RecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, buf := createTestLogger()

	router := gin.New()
	router.Use(Recovery(logger))

	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req := httptest.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()

	// Should not panic
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	if buf.Len() == 0 {
		t.Error("Expected panic to be logged")
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response JSON: %v", err)
	}

	errorField, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected response to have 'error' field")
	}
	if errorField["message"] != "Internal server error" {
		t.Errorf("Expected generic message, got %v", errorField["message"])
	}
}

func TestRecovery_NoPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, _ := createTestLogger()

	router := gin.New()
	router.Use(Recovery(logger))

	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest("GET", "/ok", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}
