// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis seeds a fresh state with the capacity token contract
// and the initial funding-asset issuance.
package genesis

import (
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gaslink/gaslink/builtin"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/state"
)

// Allocation is an initial funding-asset balance. Preapprove grants the
// capacity token contract an allowance over the full amount, so the
// holder can pay for bookings and deposits without a separate approval.
type Allocation struct {
	Address    string `yaml:"address"`
	Amount     string `yaml:"amount"`
	Preapprove bool   `yaml:"preapprove"`
}

// Config describes the genesis state.
type Config struct {
	Admin       string       `yaml:"admin"`
	Holder      string       `yaml:"holder"`
	TotalSupply string       `yaml:"totalSupply"`
	CapacityMCF uint64       `yaml:"capacityMCF"`
	BasePrice   string       `yaml:"basePrice"`
	Funding     []Allocation `yaml:"funding"`
}

// LoadConfig reads a genesis config from a yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read genesis config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse genesis config")
	}
	return &cfg, nil
}

// DevConfig returns a config for local development: one identity acts
// as admin and supply holder, with a generous preapproved funding
// balance.
func DevConfig() *Config {
	dev := gaslink.BytesToAddress([]byte("dev")).String()
	return &Config{
		Admin:       dev,
		Holder:      dev,
		TotalSupply: "1000000000000000000000000", // 1M tokens
		CapacityMCF: 100_000,
		BasePrice:   "500000", // 0.50 per MCF per day
		Funding: []Allocation{
			{Address: dev, Amount: "1000000000000", Preapprove: true},
		},
	}
}

func parseAmount(s, field string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

// Build applies the config to the state and commits it. It fails if the
// contract has already been initialized.
func Build(st *state.State, cfg *Config) error {
	admin, err := gaslink.ParseAddress(cfg.Admin)
	if err != nil {
		return errors.Wrap(err, "invalid admin address")
	}
	holder := admin
	if cfg.Holder != "" {
		if holder, err = gaslink.ParseAddress(cfg.Holder); err != nil {
			return errors.Wrap(err, "invalid holder address")
		}
	}
	supply, err := parseAmount(cfg.TotalSupply, "totalSupply")
	if err != nil {
		return err
	}
	basePrice, err := parseAmount(cfg.BasePrice, "basePrice")
	if err != nil {
		return err
	}

	token := builtin.NewCapacityToken(st, nil)
	if err := token.Initialize(admin, holder, supply, cfg.CapacityMCF, basePrice); err != nil {
		return err
	}

	usd := builtin.NewFundingToken(st)
	for _, alloc := range cfg.Funding {
		addr, err := gaslink.ParseAddress(alloc.Address)
		if err != nil {
			return errors.Wrapf(err, "invalid funding address %q", alloc.Address)
		}
		amount, err := parseAmount(alloc.Amount, "funding amount")
		if err != nil {
			return err
		}
		if err := usd.Mint(addr, amount); err != nil {
			return err
		}
		if alloc.Preapprove {
			if err := usd.Approve(addr, builtin.CapacityTokenAddress, amount); err != nil {
				return err
			}
		}
	}
	return st.Commit()
}
