package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, endpoint := range []string{"", "   "} {
		providers, err := NewProviders(ctx, Options{Endpoint: endpoint, ServiceName: "test-service"})
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if providers.TracerProvider == nil || providers.MeterProvider == nil || providers.LoggerProvider == nil {
			t.Fatalf("NewProviders(%q) left a provider nil", endpoint)
		}
		if err := providers.Shutdown(ctx); err != nil {
			t.Errorf("first shutdown: %v", err)
		}
		if err := providers.Shutdown(ctx); err != nil {
			t.Errorf("second shutdown: %v", err)
		}
	}
}

func TestCollectorTarget(t *testing.T) {
	testCases := []struct {
		endpoint      string
		force         bool
		wantTarget    string
		wantPlaintext bool
		wantErr       bool
	}{
		{"localhost:4317", false, "localhost:4317", true, false},
		{"http://collector:4317/v1/traces", false, "collector:4317", true, false},
		{"https://collector:4317", false, "collector:4317", false, false},
		{"https://collector:4317", true, "collector:4317", true, false},
		{"://invalid", false, "", false, true},
		{"http://[invalid", false, "", false, true},
		{"http://", false, "", false, true},
	}
	for _, tc := range testCases {
		target, plaintext, err := collectorTarget(tc.endpoint, tc.force)
		if tc.wantErr {
			if err == nil {
				t.Errorf("collectorTarget(%q) should fail", tc.endpoint)
			}
			continue
		}
		if err != nil {
			t.Errorf("collectorTarget(%q): %v", tc.endpoint, err)
			continue
		}
		if target != tc.wantTarget || plaintext != tc.wantPlaintext {
			t.Errorf("collectorTarget(%q, %t) = %q, %t; want %q, %t",
				tc.endpoint, tc.force, target, plaintext, tc.wantTarget, tc.wantPlaintext)
		}
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	if _, err := NewProviders(context.Background(), Options{Endpoint: "http://", ServiceName: "svc"}); err == nil {
		t.Error("NewProviders should reject an endpoint without host")
	}
}

func TestNewProviders_WithCollector(t *testing.T) {
	// Exporters dial lazily, so construction succeeds without a collector.
	providers, err := NewProviders(context.Background(), Options{
		Endpoint:    "localhost:4317",
		ServiceName: "test-service",
		Environment: "test",
	})
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = providers.Shutdown(ctx)
}

func TestSetGlobal_PartialProviders(t *testing.T) {
	ctx := context.Background()
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(ctx) }()

	oldTracerProvider := otel.GetTracerProvider()
	oldMeterProvider := otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(oldTracerProvider)
		otel.SetMeterProvider(oldMeterProvider)
	}()

	(&Providers{TracerProvider: tp}).SetGlobal()

	if otel.GetTracerProvider() != tp {
		t.Error("TracerProvider should be updated")
	}
	if otel.GetMeterProvider() != oldMeterProvider {
		t.Error("MeterProvider should not be updated when nil")
	}
}
