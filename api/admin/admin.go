// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin exposes the privileged contract operations over REST.
// Every request names the caller; authorization happens in the contract
// against the stored admin identity.
package admin

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/api/restutil"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/runtime"
)

type Admin struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Admin {
	return &Admin{rt}
}

type PriceRequest struct {
	Caller gaslink.Address       `json:"caller"`
	Price  *math.HexOrDecimal256 `json:"price"`
}

type CapacityRequest struct {
	Caller      gaslink.Address `json:"caller"`
	CapacityMCF uint64          `json:"capacityMCF"`
}

type ListRequest struct {
	Caller  gaslink.Address `json:"caller"`
	Account gaslink.Address `json:"account"`
	Listed  bool            `json:"listed"`
}

type RestrictionRequest struct {
	Caller     gaslink.Address `json:"caller"`
	Restricted bool            `json:"restricted"`
}

type WithdrawRequest struct {
	Caller gaslink.Address       `json:"caller"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type SweepRequest struct {
	Caller gaslink.Address `json:"caller"`
}

func (a *Admin) handleGetAdmin(w http.ResponseWriter, _ *http.Request) error {
	admin, err := a.rt.Admin()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"admin": admin})
}

func (a *Admin) handleSetPrice(w http.ResponseWriter, req *http.Request) error {
	var body PriceRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Price == nil {
		return restutil.BadRequest(errors.New("price: missing"))
	}
	if err := a.rt.SetBasePrice(body.Caller, (*big.Int)(body.Price)); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleResize(w http.ResponseWriter, req *http.Request) error {
	var body CapacityRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.ResizeCapacity(body.Caller, body.CapacityMCF); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleBlacklist(w http.ResponseWriter, req *http.Request) error {
	var body ListRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.SetBlacklisted(body.Caller, body.Account, body.Listed); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleWhitelist(w http.ResponseWriter, req *http.Request) error {
	var body ListRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.SetWhitelisted(body.Caller, body.Account, body.Listed); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleRestriction(w http.ResponseWriter, req *http.Request) error {
	var body RestrictionRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := a.rt.SetTransferRestricted(body.Caller, body.Restricted); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}
	if err := a.rt.EmergencyWithdraw(body.Caller, (*big.Int)(body.Amount)); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (a *Admin) handleSweep(w http.ResponseWriter, req *http.Request) error {
	var body SweepRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	swept, err := a.rt.SweepExpired(body.Caller)
	if err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"swept": swept})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetAdmin))
	sub.Path("/price").
		Methods(http.MethodPost).
		Name("POST /admin/price").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSetPrice))
	sub.Path("/capacity").
		Methods(http.MethodPost).
		Name("POST /admin/capacity").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleResize))
	sub.Path("/blacklist").
		Methods(http.MethodPost).
		Name("POST /admin/blacklist").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleBlacklist))
	sub.Path("/whitelist").
		Methods(http.MethodPost).
		Name("POST /admin/whitelist").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleWhitelist))
	sub.Path("/restriction").
		Methods(http.MethodPost).
		Name("POST /admin/restriction").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleRestriction))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /admin/withdraw").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleWithdraw))
	sub.Path("/sweep-expired").
		Methods(http.MethodPost).
		Name("POST /admin/sweep-expired").
		HandlerFunc(restutil.WrapHandlerFunc(a.handleSweep))
}
