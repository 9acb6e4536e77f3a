// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking exposes the staking and reward operations over REST.
package staking

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

type Staking struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Staking {
	return &Staking{rt}
}

type Stake struct {
	Address       gaslink.Address       `json:"address"`
	Amount        *math.HexOrDecimal256 `json:"amount"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
	StakedAt      uint64                `json:"stakedAt"`
	LockUntil     uint64                `json:"lockUntil"`
}

type Stats struct {
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
	TotalDistributed  *math.HexOrDecimal256 `json:"totalDistributed"`
	PendingRevenue    *math.HexOrDecimal256 `json:"pendingRevenue"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
}

type StakeRequest struct {
	Staker   gaslink.Address       `json:"staker"`
	Amount   *math.HexOrDecimal256 `json:"amount"`
	LockDays uint64                `json:"lockDays"`
}

type UnstakeRequest struct {
	Staker gaslink.Address       `json:"staker"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ClaimRequest struct {
	Staker gaslink.Address `json:"staker"`
}

type DepositRequest struct {
	From   gaslink.Address       `json:"from"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

func (s *Staking) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, err := gaslink.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	snap, err := s.rt.GetStake(addr)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Stake{
		Address:       addr,
		Amount:        (*math.HexOrDecimal256)(snap.Amount),
		PendingReward: (*math.HexOrDecimal256)(snap.PendingReward),
		StakedAt:      snap.StakedAt,
		LockUntil:     snap.LockUntil,
	})
}

func (s *Staking) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	stats, err := s.rt.GetStakingStats()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Stats{
		TotalStaked:       (*math.HexOrDecimal256)(stats.TotalStaked),
		TotalDistributed:  (*math.HexOrDecimal256)(stats.TotalDistributed),
		PendingRevenue:    (*math.HexOrDecimal256)(stats.PendingRevenue),
		AccRewardPerShare: (*math.HexOrDecimal256)(stats.AccRewardPerShare),
	})
}

func (s *Staking) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}
	if err := s.rt.Stake(body.Staker, (*big.Int)(body.Amount), body.LockDays); err != nil {
		return restutil.ContractError(err)
	}
	snap, err := s.rt.GetStake(body.Staker)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, restutil.M{"lockUntil": snap.LockUntil})
}

func (s *Staking) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body UnstakeRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}
	if err := s.rt.Unstake(body.Staker, (*big.Int)(body.Amount)); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (s *Staking) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.ClaimRewards(body.Staker); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (s *Staking) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	var body DepositRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return restutil.BadRequest(errors.New("amount: missing"))
	}
	if err := s.rt.DepositRevenue(body.From, (*big.Int)(body.Amount)); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stakes/{address}").
		Methods(http.MethodGet).
		Name("GET /staking/stakes/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stats").
		Methods(http.MethodGet).
		Name("GET /staking/stats").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleGetStats))
	sub.Path("/stakes").
		Methods(http.MethodPost).
		Name("POST /staking/stakes").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleStake))
	sub.Path("/unstakes").
		Methods(http.MethodPost).
		Name("POST /staking/unstakes").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/claims").
		Methods(http.MethodPost).
		Name("POST /staking/claims").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleClaim))
	sub.Path("/revenue").
		Methods(http.MethodPost).
		Name("POST /staking/revenue").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleDeposit))
}
