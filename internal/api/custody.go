package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// @Title: Fund Account
// @Route: POST /api/custody/fund
// @Description: Credits an account's token balance in the custody vault (development aid)
// @Response: {"account": "...", "token": "...", "balance": "..."}
func (s *Service) HandleFund(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Account string `json:"account"`
		Token   string `json:"token"`
		Amount  string `json:"amount"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Account == "" || req.Token == "" {
		s.writeError(w, http.StatusBadRequest, "Account and token are required")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.vault.Credit(req.Account, req.Token, amount); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Failed to fund account: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"account": req.Account,
		"token":   req.Token,
		"balance": strconv.FormatUint(s.vault.Balance(req.Account, req.Token), 10),
	})
}

// @Title: Get Balance
// @Route: GET /api/custody/balance?account=<account>&token=<token>
// @Description: Returns an account's token balance in the custody vault
// @Response: {"account": "...", "token": "...", "balance": "..."}
func (s *Service) HandleBalance(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	token := r.URL.Query().Get("token")
	if account == "" || token == "" {
		s.writeError(w, http.StatusBadRequest, "Account and token are required")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"account": account,
		"token":   token,
		"balance": strconv.FormatUint(s.vault.Balance(account, token), 10),
	})
}
