// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token exposes the fungible ledger over REST.
package token

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/api/restutil"
	"github.com/gaslink/gaslink/builtin/captoken"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/runtime"
)

type Token struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Token {
	return &Token{rt}
}

type Supply struct {
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Address        gaslink.Address       `json:"address"`
	Balance        *math.HexOrDecimal256 `json:"balance"`
	EntitlementMCF uint64                `json:"entitlementMCF"`
}

type TransferRequest struct {
	From   gaslink.Address       `json:"from"`
	To     gaslink.Address       `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (t *Token) handleGetSupply(w http.ResponseWriter, _ *http.Request) error {
	supply, err := t.rt.TotalSupply()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Supply{TotalSupply: (*math.HexOrDecimal256)(supply)})
}

func (t *Token) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := gaslink.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	bal, err := t.rt.BalanceOf(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Balance{
		Address:        addr,
		Balance:        (*math.HexOrDecimal256)(bal),
		EntitlementMCF: captoken.CapacityEntitlement(bal),
	})
}

func (t *Token) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}
	if err := t.rt.Transfer(body.From, body.To, (*big.Int)(body.Amount)); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (t *Token) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/supply").
		Methods(http.MethodGet).
		Name("GET /token/supply").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetSupply))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /token/balances/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/transfers").
		Methods(http.MethodPost).
		Name("POST /token/transfers").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleTransfer))
}
