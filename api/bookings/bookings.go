// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bookings exposes the capacity booking registry over REST.
package bookings

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/api/restutil"
	"github.com/gaslink/gaslink/builtin/captoken/bookings"
	"github.com/gaslink/gaslink/gaslink"
	"github.com/gaslink/gaslink/runtime"
)

type Bookings struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Bookings {
	return &Bookings{rt}
}

type Booking struct {
	ID          uint64                `json:"id"`
	Booker      gaslink.Address       `json:"booker"`
	CapacityMCF uint64                `json:"capacityMCF"`
	StartTime   uint64                `json:"startTime"`
	EndTime     uint64                `json:"endTime"`
	PricePerMCF *math.HexOrDecimal256 `json:"pricePerMCF"`
	Active      bool                  `json:"active"`
}

type Stats struct {
	TotalCapacityMCF uint64                `json:"totalCapacityMCF"`
	BookedMCF        uint64                `json:"bookedMCF"`
	AvailableMCF     uint64                `json:"availableMCF"`
	UtilizationBps   uint64                `json:"utilizationBps"`
	BasePrice        *math.HexOrDecimal256 `json:"basePrice"`
}

type BookRequest struct {
	Booker       gaslink.Address `json:"booker"`
	CapacityMCF  uint64          `json:"capacityMCF"`
	DurationDays uint64          `json:"durationDays"`
}

type CancelRequest struct {
	Caller gaslink.Address `json:"caller"`
}

func convertBooking(id bookings.ID, b *bookings.Booking) *Booking {
	return &Booking{
		ID:          uint64(id),
		Booker:      b.Booker,
		CapacityMCF: b.CapacityMCF,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		PricePerMCF: (*math.HexOrDecimal256)(b.PricePerMCF),
		Active:      b.Active,
	}
}

func parseID(s string) (bookings.ID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return bookings.ID(id), nil
}

func (b *Bookings) handleGetBooking(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(mux.Vars(req)["id"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	booking, err := b.rt.GetBooking(id)
	if err != nil {
		return err
	}
	if booking == nil {
		return restutil.HTTPError(errors.New("booking not found"), http.StatusNotFound)
	}
	return restutil.WriteJSON(w, convertBooking(id, booking))
}

func (b *Bookings) handleList(w http.ResponseWriter, req *http.Request) error {
	count, err := b.rt.BookingCount()
	if err != nil {
		return err
	}
	activeOnly := req.URL.Query().Get("active") == "true"
	list := make([]*Booking, 0, count)
	for id := bookings.ID(1); uint64(id) <= count; id++ {
		booking, err := b.rt.GetBooking(id)
		if err != nil {
			return err
		}
		if booking == nil || (activeOnly && !booking.Active) {
			continue
		}
		list = append(list, convertBooking(id, booking))
	}
	return restutil.WriteJSON(w, list)
}

func (b *Bookings) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	stats, err := b.rt.GetPipelineStats()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Stats{
		TotalCapacityMCF: stats.TotalCapacityMCF,
		BookedMCF:        stats.BookedMCF,
		AvailableMCF:     stats.AvailableMCF,
		UtilizationBps:   stats.UtilizationBps,
		BasePrice:        (*math.HexOrDecimal256)(stats.BasePrice),
	})
}

func (b *Bookings) handleBook(w http.ResponseWriter, req *http.Request) error {
	var body BookRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	id, err := b.rt.BookCapacity(body.Booker, body.CapacityMCF, body.DurationDays)
	if err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"id": uint64(id)})
}

func (b *Bookings) handleCancel(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(mux.Vars(req)["id"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	var body CancelRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := b.rt.CancelBooking(body.Caller, id); err != nil {
		return restutil.ContractError(err)
	}
	return restutil.WriteJSON(w, restutil.M{"ok": true})
}

func (b *Bookings) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/stats").
		Methods(http.MethodGet).
		Name("GET /bookings/stats").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetStats))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /bookings/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetBooking))
	sub.Path("/{id:[0-9]+}/cancel").
		Methods(http.MethodPost).
		Name("POST /bookings/{id}/cancel").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleCancel))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /bookings").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleList))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /bookings").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleBook))
}
