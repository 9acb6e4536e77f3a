// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bookings

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/builtin/slot"
	"github.com/gaslink/gaslink/gaslink"
)

var (
	slotBookings      = gaslink.BytesToBytes32([]byte("bookings"))
	slotCounter       = gaslink.BytesToBytes32([]byte("bookings-counter"))
	slotTotalCapacity = gaslink.BytesToBytes32([]byte("pipeline-total-capacity"))
	slotTotalBooked   = gaslink.BytesToBytes32([]byte("pipeline-total-booked"))
	slotBasePrice     = gaslink.BytesToBytes32([]byte("pipeline-base-price"))
	slotUtilization   = gaslink.BytesToBytes32([]byte("pipeline-utilization"))
)

// ID identifies a booking. IDs start at 1 and increase monotonically.
type ID uint64

// Bytes implements slot.Key.
func (id ID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// Booking is an immutable reservation record. The price captured at booking
// time is never changed by later base price updates.
type Booking struct {
	Booker      gaslink.Address
	CapacityMCF uint64
	StartTime   uint64
	EndTime     uint64
	PricePerMCF *big.Int
	Active      bool
}

// IsEmpty returns whether the record exists.
func (b *Booking) IsEmpty() bool {
	return b.EndTime == 0
}

// Service owns reservation records, the capacity ceiling and the aggregate
// booked capacity, keeping totalBooked <= totalCapacity after every
// capacity-affecting operation.
type Service struct {
	bookings      *slot.Mapping[ID, *Booking]
	counter       *slot.Uint256
	totalCapacity *slot.Uint256
	totalBooked   *slot.Uint256
	basePrice     *slot.Uint256
	utilization   *slot.Uint256
}

// New create a new instance.
func New(sctx *slot.Context) *Service {
	return &Service{
		bookings:      slot.NewMapping[ID, *Booking](sctx, slotBookings),
		counter:       slot.NewUint256(sctx, slotCounter),
		totalCapacity: slot.NewUint256(sctx, slotTotalCapacity),
		totalBooked:   slot.NewUint256(sctx, slotTotalBooked),
		basePrice:     slot.NewUint256(sctx, slotBasePrice),
		utilization:   slot.NewUint256(sctx, slotUtilization),
	}
}

// Get returns the booking record, normalized so that the price is never nil.
func (s *Service) Get(id ID) (*Booking, error) {
	booking, err := s.bookings.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get booking")
	}
	if booking.PricePerMCF == nil {
		booking.PricePerMCF = new(big.Int)
	}
	return booking, nil
}

// Set stores the booking record.
func (s *Service) Set(id ID, booking *Booking) error {
	if err := s.bookings.Set(id, booking); err != nil {
		return errors.Wrap(err, "failed to set booking")
	}
	return nil
}

// NextID allocates the next booking id.
func (s *Service) NextID() (ID, error) {
	if err := s.counter.Add(big.NewInt(1)); err != nil {
		return 0, err
	}
	count, err := s.counter.Get()
	if err != nil {
		return 0, err
	}
	return ID(count.Uint64()), nil
}

// Count returns the number of bookings ever created.
func (s *Service) Count() (uint64, error) {
	count, err := s.counter.Get()
	if err != nil {
		return 0, err
	}
	return count.Uint64(), nil
}

func (s *Service) TotalCapacity() (uint64, error) {
	v, err := s.totalCapacity.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (s *Service) SetTotalCapacity(capacityMCF uint64) error {
	return s.totalCapacity.Set(new(big.Int).SetUint64(capacityMCF))
}

func (s *Service) TotalBooked() (uint64, error) {
	v, err := s.totalBooked.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

func (s *Service) AddBooked(capacityMCF uint64) error {
	return s.totalBooked.Add(new(big.Int).SetUint64(capacityMCF))
}

func (s *Service) SubBooked(capacityMCF uint64) error {
	return s.totalBooked.Sub(new(big.Int).SetUint64(capacityMCF))
}

func (s *Service) BasePrice() (*big.Int, error) {
	return s.basePrice.Get()
}

func (s *Service) SetBasePrice(price *big.Int) error {
	return s.basePrice.Set(price)
}

// Utilization returns the stored utilization rate in basis points.
func (s *Service) Utilization() (uint64, error) {
	v, err := s.utilization.Get()
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}

// RecomputeUtilization refreshes the stored utilization rate from the current
// aggregates and returns it. Utilization is zero while no ceiling is set.
func (s *Service) RecomputeUtilization() (uint64, error) {
	capacity, err := s.TotalCapacity()
	if err != nil {
		return 0, err
	}
	booked, err := s.TotalBooked()
	if err != nil {
		return 0, err
	}
	var rate uint64
	if capacity != 0 {
		rate = booked * gaslink.BasisPoints / capacity
	}
	if err := s.utilization.Set(new(big.Int).SetUint64(rate)); err != nil {
		return 0, err
	}
	return rate, nil
}
