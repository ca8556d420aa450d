// Copyright 2026 Heliax AG
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetTeamMembership(t *testing.T) {
	var requestedPath string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestedPath = request.URL.Path
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"state":"active","role":"member"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	membership, err := client.GetTeamMembership(context.Background(), "heliaxdev", "company", "validator-operator")
	if err != nil {
		t.Fatalf("GetTeamMembership: %v", err)
	}

	if want := "/orgs/heliaxdev/teams/company/memberships/validator-operator"; requestedPath != want {
		t.Errorf("path = %q, want %q", requestedPath, want)
	}
	if membership.State != MembershipActive {
		t.Errorf("State = %q, want %q", membership.State, MembershipActive)
	}
	if membership.Role != "member" {
		t.Errorf("Role = %q, want %q", membership.Role, "member")
	}
}

func TestGetTeamMembershipPending(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"state":"pending","role":"member"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	membership, err := client.GetTeamMembership(context.Background(), "heliaxdev", "company", "invitee")
	if err != nil {
		t.Fatalf("GetTeamMembership: %v", err)
	}
	if membership.State == MembershipActive {
		t.Error("pending membership reported as active")
	}
}

func TestGetTeamMembershipNotAMember(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		fmt.Fprint(writer, `{"message":"Not Found"}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetTeamMembership(context.Background(), "heliaxdev", "company", "outsider")
	if err == nil {
		t.Fatal("expected error for non-member")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}
}
