package test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func DummyLogger(w io.Writer) *zap.Logger {
	return LeveledLogger(w, zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

// LeveledLogger is DummyLogger with its level controlled by the caller.
func LeveledLogger(w io.Writer, level zap.AtomicLevel) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey: "message",
	})

	writer := zap.CombineWriteSyncers(zapcore.AddSync(os.Stderr), zapcore.AddSync(w))

	l := zap.New(zapcore.NewCore(encoder, writer, level))
	zap.RedirectStdLog(l)

	return l
}

// Request is what the fake interpreter saw of the last query sent to it.
type Request struct {
	Method string
	Header http.Header
	Data   string
}

// NewInterpreter starts a server that routes POST /api/interpreter to handler
// and answers anything else with 404 or 405.
func NewInterpreter(t testing.TB, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/api/interpreter", handler).Methods(http.MethodPost)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return server
}

// Reply answers with the given status, content type and body, recording the
// request into captured when it is not nil.
func Reply(code int, contentType, body string, captured *Request) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.Method = r.Method
			captured.Header = r.Header.Clone()
			if err := r.ParseForm(); err == nil {
				captured.Data = r.PostForm.Get("data")
			}
		}

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(code)
		fmt.Fprint(w, body)
	}
}
