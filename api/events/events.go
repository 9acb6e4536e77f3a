// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events exposes the persisted event log over REST.
package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/gaslink/gaslink/api/restutil"
	"github.com/gaslink/gaslink/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter logdb.Filter
	if err := restutil.ParseJSON(req.Body, &filter); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return restutil.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Range != nil && filter.Range.To != 0 && filter.Range.From > filter.Range.To {
		return restutil.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	if filter.Options == nil {
		filter.Options = &logdb.Options{Limit: e.limit}
	}

	events, err := e.db.Filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*logdb.Event{}
	}
	return restutil.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
