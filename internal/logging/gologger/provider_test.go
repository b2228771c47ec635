package gologger

import (
	"context"
	"testing"

	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestNewProviderCreatesModuleLogger(t *testing.T) {
	p, err := NewProvider(Config{Level: "debug", Format: "console"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	logger := p.GetLogger("pagegen.composer")
	if logger == nil {
		t.Fatal("expected logger")
	}
	logger.Debug("provider.initialised", "template", "v1-saas-modern-light")
}

func TestAdapterDelegatesToUnderlyingLogger(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	adapted.Trace("trace")
	adapted.Debug("debug")
	adapted.Info("info")
	adapted.Warn("warn")
	adapted.Error("error")
	adapted.Fatal("fatal")

	fields := map[string]any{"template": "v1-saas-modern-light"}
	child := adapted.(*adapter).WithFields(fields)
	if child == nil {
		t.Fatal("expected logger from WithFields")
	}
	fields["template"] = "mutated"
	if len(stub.fields) != 1 || stub.fields[0]["template"] != "v1-saas-modern-light" {
		t.Fatalf("expected cloned fields, got %#v", stub.fields)
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}

	want := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if len(stub.calls) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(stub.calls))
	}
	for i := range want {
		if stub.calls[i] != want[i] {
			t.Fatalf("call %d: want %q got %q", i, want[i], stub.calls[i])
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"WARNING": glog.Warn,
		" info ":  glog.Info,
		"bogus":   "",
	}
	for in, want := range cases {
		if got := normalizeLevel(in); got != want {
			t.Fatalf("normalizeLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

type ctxKey struct{}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.fields = append(s.fields, copied)
	return s
}
