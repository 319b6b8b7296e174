package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/EmekaIwuagwu/metabridge-hub/internal/ledger"
)

// @Title: Lock Tokens
// @Route: POST /api/lock
// @Description: Lock tokens for a cross-chain transfer and emit token_locked
// @Response: LockRecord with the assigned message_id and nonce
func (s *Service) HandleLock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Sender             string `json:"sender"`
		TokenContract      string `json:"token_contract"`
		Amount             string `json:"amount"`
		DestinationChain   string `json:"destination_chain"`
		DestinationAddress string `json:"destination_address"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.ledger.Lock(req.Sender, req.TokenContract, amount, req.DestinationChain, req.DestinationAddress)
	if err != nil {
		s.trail.Rejected("lock", "", err.Error())
		s.writeError(w, statusForLedgerError(err), err.Error())
		return
	}

	s.trail.Accepted("lock", rec.MessageID,
		fmt.Sprintf("locked %d of %s from %s for %s", rec.Amount, rec.TokenContract, rec.Sender, rec.DestinationChain))
	s.writeJSON(w, http.StatusCreated, rec)
}

// @Title: Unlock Tokens
// @Route: POST /api/unlock
// @Description: Release a prior lock to its recipient and emit token_unlocked
// @Response: UnlockRecord matching the originating lock
func (s *Service) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		MessageID     string `json:"message_id"`
		SourceChain   string `json:"source_chain"`
		SenderAddress string `json:"sender_address"`
		Recipient     string `json:"recipient"`
		TokenContract string `json:"token_contract"`
		Amount        string `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.ledger.Unlock(req.MessageID, req.SourceChain, req.SenderAddress, req.Recipient, amount, req.TokenContract)
	if err != nil {
		if ledger.IsReplay(err) {
			s.trail.Replay("unlock", req.MessageID, err.Error())
		} else {
			s.trail.Rejected("unlock", req.MessageID, err.Error())
		}
		s.writeError(w, statusForLedgerError(err), err.Error())
		return
	}

	s.trail.Accepted("unlock", rec.MessageID,
		fmt.Sprintf("unlocked %d of %s to %s", rec.Amount, rec.TokenContract, rec.Recipient))
	s.writeJSON(w, http.StatusCreated, rec)
}

// @Title: List Messages
// @Route: GET /api/messages
// @Description: List all lock records ordered by nonce
// @Response: Array of LockRecord objects
func (s *Service) HandleMessages(w http.ResponseWriter, r *http.Request) {
	locks, err := s.store.ListLocks()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list messages")
		return
	}
	s.writeJSON(w, http.StatusOK, locks)
}

// @Title: Get Message
// @Route: GET /api/messages/get?id=<message_id>
// @Description: Get the lock record (and unlock record, if consumed) for a message id
// @Response: {"lock": LockRecord, "unlock": UnlockRecord|null}
func (s *Service) HandleMessage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "Message id is required")
		return
	}

	lock, err := s.ledger.Get(id)
	if err != nil {
		s.writeError(w, statusForLedgerError(err), err.Error())
		return
	}

	resp := map[string]interface{}{"lock": lock, "unlock": nil}
	if lock.Consumed {
		if unlock, err := s.store.GetUnlock(id); err == nil {
			resp["unlock"] = unlock
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// @Title: Get Stats
// @Route: GET /api/stats
// @Description: Summarize ledger contents
// @Response: MessageStats object
func (s *Service) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func parseAmount(value string) (uint64, error) {
	if value == "" {
		return 0, fmt.Errorf("amount is required")
	}
	amount, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be an unsigned decimal integer", value)
	}
	return amount, nil
}
