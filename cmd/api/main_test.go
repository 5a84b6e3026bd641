package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

func TestLoadAWSSkippedWhenUnused(t *testing.T) {
	cfg := &appconfig.Config{SessionStore: appconfig.SessionStoreMemory, EmailProvider: appconfig.EmailProviderStub}
	awsCfg, err := loadAWS(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg != nil {
		t.Fatalf("expected no aws config")
	}
}

func TestLoadAWSWithStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:          "us-west-2",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		ArchiveBucket:      "transcripts",
	}
	awsCfg, err := loadAWS(context.Background(), cfg, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg == nil || awsCfg.Region != "us-west-2" {
		t.Fatalf("expected aws config for us-west-2, got %+v", awsCfg)
	}
}

func TestNewServer(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	srv := newServer(&appconfig.Config{Port: "9091"}, handler)

	if srv.Addr != ":9091" {
		t.Fatalf("unexpected addr %q", srv.Addr)
	}
	if srv.WriteTimeout != 0 || srv.ReadTimeout != 0 {
		t.Fatalf("websocket connections need unbounded read/write deadlines")
	}
	if srv.ReadHeaderTimeout != 10*time.Second {
		t.Fatalf("unexpected header timeout %s", srv.ReadHeaderTimeout)
	}

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected handler to be mounted")
	}
}
