// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateRepositoryDispatch(t *testing.T) {
	var requestedPath, requestedMethod, requestBody string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.Path
		requestedMethod = request.Method
		body, _ := io.ReadAll(request.Body)
		requestBody = string(body)
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.CreateRepositoryDispatch(context.Background(), "heliaxdev", "anoma-network-config", DispatchRequest{
		EventType:     "release",
		ClientPayload: map[string]string{"chain-id": "namada-1b2c3d4.abc"},
	})
	if err != nil {
		t.Fatalf("CreateRepositoryDispatch: %v", err)
	}

	if requestedMethod != http.MethodPost {
		t.Errorf("method = %q, want POST", requestedMethod)
	}
	if want := "/repos/heliaxdev/anoma-network-config/dispatches"; requestedPath != want {
		t.Errorf("path = %q, want %q", requestedPath, want)
	}
	want := `{"event_type":"release","client_payload":{"chain-id":"namada-1b2c3d4.abc"}}`
	if requestBody != want {
		t.Errorf("body = %s, want %s", requestBody, want)
	}
}

func TestCreateRepositoryDispatchFailure(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(writer, `{"message":"Invalid event type"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.CreateRepositoryDispatch(context.Background(), "o", "r", DispatchRequest{EventType: ""})
	if err == nil {
		t.Fatal("expected error for 422")
	}
}
