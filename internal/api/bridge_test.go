package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/types"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	handler(w, req)
	return w.Result()
}

func TestHandleHealth(t *testing.T) {
	svc, _, cleanup := setupTest(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	svc.HandleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.Status)
	}
}

func TestHandleLock(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 5000)

	resp := postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"1000","destination_chain":"chainX","destination_address":"0xabc"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status Created, got %v", resp.Status)
	}

	var rec types.LockRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatalf("Failed to decode lock record: %v", err)
	}
	if rec.MessageID == "" || rec.Nonce != 1 || rec.Amount != 1000 {
		t.Errorf("Unexpected lock record: %+v", rec)
	}
}

func TestHandleLockRejectsBadInput(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 100)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"garbage body", `not json`, http.StatusBadRequest},
		{"zero amount", `{"sender":"alice","token_contract":"T","amount":"0","destination_chain":"chainX","destination_address":"0xabc"}`, http.StatusBadRequest},
		{"negative amount", `{"sender":"alice","token_contract":"T","amount":"-5","destination_chain":"chainX","destination_address":"0xabc"}`, http.StatusBadRequest},
		{"missing destination", `{"sender":"alice","token_contract":"T","amount":"10"}`, http.StatusBadRequest},
		{"insufficient balance", `{"sender":"bob","token_contract":"T","amount":"10","destination_chain":"chainX","destination_address":"0xabc"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, svc.HandleLock, "/api/lock", tc.body)
			if resp.StatusCode != tc.want {
				t.Errorf("Expected %d, got %v", tc.want, resp.Status)
			}
		})
	}
}

func TestHandleUnlockRoundTrip(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 1000)

	resp := postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"1000","destination_chain":"chainX","destination_address":"0xabc"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Lock failed: %v", resp.Status)
	}
	var lock types.LockRecord
	json.NewDecoder(resp.Body).Decode(&lock)

	body := `{"message_id":"` + lock.MessageID + `","source_chain":"chainX","sender_address":"0xabc","recipient":"bob","token_contract":"T","amount":"1000"}`
	resp = postJSON(t, svc.HandleUnlock, "/api/unlock", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Unlock failed: %v", resp.Status)
	}

	var unlock types.UnlockRecord
	if err := json.NewDecoder(resp.Body).Decode(&unlock); err != nil {
		t.Fatalf("Failed to decode unlock record: %v", err)
	}
	if unlock.MessageID != lock.MessageID || unlock.Amount != 1000 {
		t.Errorf("Unexpected unlock record: %+v", unlock)
	}

	// Replay must be rejected with a conflict.
	resp = postJSON(t, svc.HandleUnlock, "/api/unlock", body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("Expected Conflict on replay, got %v", resp.Status)
	}
}

func TestHandleUnlockUnknownMessage(t *testing.T) {
	svc, _, cleanup := setupTest(t)
	defer cleanup()

	resp := postJSON(t, svc.HandleUnlock, "/api/unlock",
		`{"message_id":"deadbeef","source_chain":"chainX","sender_address":"0xabc","recipient":"bob","token_contract":"T","amount":"10"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected NotFound, got %v", resp.Status)
	}
}

func TestHandleUnlockAmountMismatch(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 1000)

	resp := postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"1000","destination_chain":"chainX","destination_address":"0xabc"}`)
	var lock types.LockRecord
	json.NewDecoder(resp.Body).Decode(&lock)

	resp = postJSON(t, svc.HandleUnlock, "/api/unlock",
		`{"message_id":"`+lock.MessageID+`","source_chain":"chainX","sender_address":"0xabc","recipient":"bob","token_contract":"T","amount":"999"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected BadRequest on amount mismatch, got %v", resp.Status)
	}
}

func TestHandleMessage(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 100)
	resp := postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"100","destination_chain":"chainX","destination_address":"0xabc"}`)
	var lock types.LockRecord
	json.NewDecoder(resp.Body).Decode(&lock)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/get?id="+lock.MessageID, nil)
	w := httptest.NewRecorder()
	svc.HandleMessage(w, req)
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("Expected OK, got %v", w.Result().Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/messages/get?id=missing", nil)
	w = httptest.NewRecorder()
	svc.HandleMessage(w, req)
	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("Expected NotFound for unknown id, got %v", w.Result().Status)
	}
}

func TestHandleStats(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 100)
	postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"100","destination_chain":"chainX","destination_address":"0xabc"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	svc.HandleStats(w, req)

	var stats types.MessageStats
	if err := json.NewDecoder(w.Result().Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalLocks != 1 || stats.ActiveLocks != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestHandleEventsExposesEmittedLines(t *testing.T) {
	svc, vault, cleanup := setupTest(t)
	defer cleanup()

	vault.Credit("alice", "T", 100)
	postJSON(t, svc.HandleLock, "/api/lock",
		`{"sender":"alice","token_contract":"T","amount":"100","destination_chain":"chainX","destination_address":"0xabc"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	svc.HandleEvents(w, req)

	var lines []string
	if err := json.NewDecoder(w.Result().Body).Decode(&lines); err != nil {
		t.Fatalf("Failed to decode events: %v", err)
	}
	if len(lines) != 1 || !strings.HasPrefix(lines[0], "EVENT_JSON:") {
		t.Errorf("Unexpected event lines: %v", lines)
	}
}

func TestHandleFundAndBalance(t *testing.T) {
	svc, _, cleanup := setupTest(t)
	defer cleanup()

	resp := postJSON(t, svc.HandleFund, "/api/custody/fund",
		`{"account":"alice","token":"T","amount":"250"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Fund failed: %v", resp.Status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/custody/balance?account=alice&token=T", nil)
	w := httptest.NewRecorder()
	svc.HandleBalance(w, req)

	var out map[string]string
	json.NewDecoder(w.Result().Body).Decode(&out)
	if out["balance"] != "250" {
		t.Errorf("Expected balance 250, got %q", out["balance"])
	}
}
