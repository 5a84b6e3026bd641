// Command chat-lambda serves the chat API from AWS Lambda behind an API
// Gateway HTTP API. WebSocket chat is not available here.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/clara-insurance-guide/cmd/mainconfig"
	"github.com/wolfman30/clara-insurance-guide/internal/app/bootstrap"
	appconfig "github.com/wolfman30/clara-insurance-guide/internal/config"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	if cfg.SessionStore == appconfig.SessionStoreMemory {
		logger.Warn("SESSION_STORE=memory in lambda; sessions will not survive cold starts")
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	app, err := bootstrap.Build(ctx, cfg, &awsCfg, logger)
	if err != nil {
		logger.Error("failed to build app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, app.Handler, evt)
	})
}

func handle(ctx context.Context, h http.Handler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}
	if strings.HasPrefix(path, "/ws/") {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound, Body: "websocket chat is not served from lambda"}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid body"}, nil
	}

	target := path
	if qs := strings.TrimSpace(evt.RawQueryString); qs != "" {
		target += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusBadRequest, Body: "invalid request"}, nil
	}
	for k, v := range evt.Headers {
		req.Header.Set(k, v)
	}
	// API Gateway puts the caller in the request context, not X-Forwarded-For.
	if ip := strings.TrimSpace(evt.RequestContext.HTTP.SourceIP); ip != "" && req.Header.Get("X-Forwarded-For") == "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	if host := strings.TrimSpace(evt.RequestContext.DomainName); host != "" {
		req.Host = host
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	out := events.APIGatewayV2HTTPResponse{
		StatusCode: rec.Code,
		Body:       rec.Body.String(),
		Headers:    map[string]string{},
	}
	for k := range rec.Header() {
		out.Headers[strings.ToLower(k)] = rec.Header().Get(k)
	}
	return out, nil
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
