package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/creatorstack/creatorstack-backend/internal/auth"
	"github.com/creatorstack/creatorstack-backend/internal/users"
	"github.com/creatorstack/creatorstack-backend/pkg/enums"
	pkgerrors "github.com/creatorstack/creatorstack-backend/pkg/errors"
)

type stubRegisterService struct {
	err error
}

func (s stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) error {
	return s.err
}

func registerBody() []byte {
	return []byte(`{
		"name": "Alice Founder",
		"email": "alice@example.com",
		"password": "Secret123!",
		"team_name": "Acme Talent",
		"accept_tos": true
	}`)
}

func TestAuthRegisterSuccess(t *testing.T) {
	token := "new-token"
	resp := &auth.LoginResponse{
		AccessToken:  token,
		RefreshToken: "refresh",
		Teams: []auth.TeamSummary{
			{ID: uuid.New(), Name: "Acme Talent", Role: enums.RoleLevelOwner},
		},
		User: &users.UserDTO{ID: uuid.New(), Email: "alice@example.com", Name: "Alice Founder"},
	}
	handler := AuthRegister(stubRegisterService{}, stubAuthService{resp: resp}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("X-CS-Token"); got != token {
		t.Fatalf("expected token header %s got %s", token, got)
	}

	var envelope struct {
		Data struct {
			User *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User == nil || envelope.Data.User.Email != "alice@example.com" {
		t.Fatalf("expected user in payload got %+v", envelope.Data.User)
	}
}

func TestAuthRegisterPropagatesError(t *testing.T) {
	handler := AuthRegister(stubRegisterService{err: pkgerrors.New(pkgerrors.CodeConflict, "duplicate")}, stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthRegisterRejectsInvalidPayload(t *testing.T) {
	handler := AuthRegister(stubRegisterService{}, stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader([]byte(`{"email":"alice@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
