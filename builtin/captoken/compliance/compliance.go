// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package compliance

import (
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/reverts"
	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var (
	slotBlacklist  = gaslink.BytesToBytes32([]byte("compliance-blacklist"))
	slotWhitelist  = gaslink.BytesToBytes32([]byte("compliance-whitelist"))
	slotRestricted = gaslink.BytesToBytes32([]byte("compliance-transfer-restricted"))
)

// Revert errors of the gate.
var (
	ErrSenderBlacklisted    = reverts.New("sender blacklisted")
	ErrRecipientBlacklisted = reverts.New("recipient blacklisted")
	ErrTransferRestricted   = reverts.New("transfers restricted")
)

// Service is the access gate consulted on every non-mint/non-burn transfer.
// The contract's own address always passes the restriction check so that
// staking and booking flows keep working while peer-to-peer transfers are
// globally restricted.
type Service struct {
	self       gaslink.Address
	blacklist  *slot.Mapping[gaslink.Address, bool]
	whitelist  *slot.Mapping[gaslink.Address, bool]
	restricted *slot.Bool
}

// New create a new instance.
func New(sctx *slot.Context) *Service {
	return &Service{
		self:       sctx.Address(),
		blacklist:  slot.NewMapping[gaslink.Address, bool](sctx, slotBlacklist),
		whitelist:  slot.NewMapping[gaslink.Address, bool](sctx, slotWhitelist),
		restricted: slot.NewBool(sctx, slotRestricted),
	}
}

func (s *Service) IsBlacklisted(addr gaslink.Address) (bool, error) {
	listed, err := s.blacklist.Get(addr)
	if err != nil {
		return false, errors.Wrap(err, "failed to get blacklist entry")
	}
	return listed, nil
}

func (s *Service) IsWhitelisted(addr gaslink.Address) (bool, error) {
	listed, err := s.whitelist.Get(addr)
	if err != nil {
		return false, errors.Wrap(err, "failed to get whitelist entry")
	}
	return listed, nil
}

func (s *Service) TransferRestricted() (bool, error) {
	restricted, err := s.restricted.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get restriction flag")
	}
	return restricted, nil
}

func (s *Service) SetBlacklisted(addr gaslink.Address, listed bool) error {
	return s.blacklist.Set(addr, listed)
}

func (s *Service) SetWhitelisted(addr gaslink.Address, listed bool) error {
	return s.whitelist.Set(addr, listed)
}

func (s *Service) SetTransferRestricted(restricted bool) error {
	return s.restricted.Set(restricted)
}

// CheckTransfer is the pure predicate applied to a sender/recipient pair.
// Blacklist entries reject unconditionally. Under restricted mode the pair
// must involve the contract itself or a whitelisted party.
func (s *Service) CheckTransfer(sender, recipient gaslink.Address) error {
	if listed, err := s.IsBlacklisted(sender); err != nil {
		return err
	} else if listed {
		return ErrSenderBlacklisted
	}
	if listed, err := s.IsBlacklisted(recipient); err != nil {
		return err
	} else if listed {
		return ErrRecipientBlacklisted
	}

	restricted, err := s.TransferRestricted()
	if err != nil {
		return err
	}
	if !restricted {
		return nil
	}
	if sender == s.self || recipient == s.self {
		return nil
	}
	if listed, err := s.IsWhitelisted(sender); err != nil {
		return err
	} else if listed {
		return nil
	}
	if listed, err := s.IsWhitelisted(recipient); err != nil {
		return err
	} else if listed {
		return nil
	}
	return ErrTransferRestricted
}
