package rpc

import (
	"encoding/json"
	"net/http"

	"github.com/holiman/uint256"

	"aliaspay/crypto"
	"aliaspay/native/router"
)

type getConfigResult struct {
	Active      bool   `json:"active"`
	FeeRate     string `json:"fee"`
	FeeDecimals uint8  `json:"decimals"`
}

type checkAliasParams struct {
	Alias string `json:"alias"`
}

type checkAliasResult struct {
	DoesExist bool `json:"doesExist"`
}

type setAliasParams struct {
	Address string  `json:"address"`
	Alias   *string `json:"alias,omitempty"`
}

type setAliasResult struct {
	OK    bool   `json:"ok"`
	Alias string `json:"alias"`
}

type registerTokenParams struct {
	Caller     string `json:"caller"`
	Token      string `json:"token"`
	Credential string `json:"credential"`
}

type changeFeeParams struct {
	Caller string `json:"caller"`
	NewFee string `json:"newFee"`
}

type changeAdminParams struct {
	Caller   string `json:"caller"`
	NewAdmin string `json:"newAdmin"`
}

type simulateReceiveParams struct {
	Token   string          `json:"token"`
	Sender  string          `json:"sender"`
	From    string          `json:"from"`
	Amount  string          `json:"amount"`
	Payload json.RawMessage `json:"payload"`
}

type instructionResult struct {
	Type       string `json:"type"`
	Token      string `json:"token"`
	Credential string `json:"credential"`
	Recipient  string `json:"recipient,omitempty"`
	Amount     string `json:"amount,omitempty"`
}

type receiveResult struct {
	Instructions []instructionResult `json:"instructions"`
	Logs         map[string]string   `json:"logs,omitempty"`
}

func decodeSingleParam(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "expected a single parameter object"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}

func decodeCaller(value string) (crypto.Address, *RPCError) {
	addr, err := crypto.DecodeAddress(value)
	if err != nil {
		return crypto.Address{}, &RPCError{Code: codeInvalidParams, Message: "invalid address", Data: err.Error()}
	}
	return addr, nil
}

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	view, err := s.node.GetConfig()
	if err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, getConfigResult{
		Active:      view.Active,
		FeeRate:     view.FeeRate.Dec(),
		FeeDecimals: view.FeeDecimals,
	})
}

func (s *Server) handleCheckAlias(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params checkAliasParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	exists, err := s.node.CheckAlias(params.Alias)
	if err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, checkAliasResult{DoesExist: exists})
}

func (s *Server) handleSetAlias(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setAliasParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	owner, rpcErr := decodeCaller(params.Address)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	resp, err := s.node.SetAlias(owner, params.Alias)
	if err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	result := setAliasResult{OK: true}
	for _, logEntry := range resp.Logs {
		if logEntry.Key == "alias" {
			result.Alias = logEntry.Value
		}
	}
	s.logger.Info("alias claimed", "alias", result.Alias, "owner", params.Address)
	writeResult(w, req.ID, result)
}

func (s *Server) handleRegisterToken(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params registerTokenParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeCaller(params.Caller)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	resp, err := s.node.RegisterToken(caller, params.Token, params.Credential)
	if err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	s.logger.Info("token registered", "token", params.Token)
	writeResult(w, req.ID, renderReceiveResult(resp))
}

func (s *Server) handleChangeFee(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params changeFeeParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeCaller(params.Caller)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	newFee, err := uint256.FromDecimal(params.NewFee)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid fee value", err.Error())
		return
	}
	if _, err := s.node.ChangeFee(caller, newFee); err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	s.logger.Info("fee updated", "fee", params.NewFee)
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

func (s *Server) handleChangeAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params changeAdminParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeCaller(params.Caller)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	if _, err := s.node.ChangeAdmin(caller, params.NewAdmin); err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	s.logger.Info("admin rotated", "admin", params.NewAdmin)
	writeResult(w, req.ID, map[string]bool{"ok": true})
}

// handleSimulateReceive drives the deposit-notification path as if the named
// token contract had called in. Operators use it to verify routing before
// pointing a live token at the node.
func (s *Server) handleSimulateReceive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params simulateReceiveParams
	if rpcErr := decodeSingleParam(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, rpcErr := decodeCaller(params.Token)
	if rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	amount := uint256.NewInt(0)
	if params.Amount != "" {
		parsed, err := uint256.FromDecimal(params.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid amount", err.Error())
			return
		}
		amount = parsed
	}
	resp, err := s.node.Receive(caller, params.Sender, params.From, amount, params.Payload)
	if err != nil {
		writeRouterError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, renderReceiveResult(resp))
}

func renderReceiveResult(resp *router.Response) receiveResult {
	result := receiveResult{Instructions: make([]instructionResult, 0, len(resp.Instructions))}
	for _, instruction := range resp.Instructions {
		switch ins := instruction.(type) {
		case router.RegisterReceive:
			result.Instructions = append(result.Instructions, instructionResult{
				Type:       ins.InstructionType(),
				Token:      ins.Token.String(),
				Credential: ins.Credential,
			})
		case router.Transfer:
			result.Instructions = append(result.Instructions, instructionResult{
				Type:       ins.InstructionType(),
				Token:      ins.Token.String(),
				Credential: ins.Credential,
				Recipient:  ins.Recipient.String(),
				Amount:     ins.Amount.Dec(),
			})
		}
	}
	if len(resp.Logs) > 0 {
		result.Logs = make(map[string]string, len(resp.Logs))
		for _, logEntry := range resp.Logs {
			result.Logs[logEntry.Key] = logEntry.Value
		}
	}
	return result
}
