package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/transit-planner/service-route/internal/application"
)

// operatingDays decodes a pipe separated weekday list such as "1|3|5".
type operatingDays []int

func (d *operatingDays) UnmarshalText(text []byte) error {
	var days []int
	for _, part := range strings.Split(string(text), "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid operating day %q: %w", part, err)
		}
		days = append(days, n)
	}
	*d = days
	return nil
}

type transportationRow struct {
	OriginCode         string        `csv:"origin_code"`
	DestinationCode    string        `csv:"destination_code"`
	TransportationType string        `csv:"transportation_type"`
	OperatingDays      operatingDays `csv:"operating_days"`
}

func parseLocations(r io.Reader) ([]application.LocationRequest, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read locations header: %w", err)
	}

	var rows []application.LocationRequest
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return rows, nil
}

func parseTransportations(r io.Reader) ([]application.TransportationRequest, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read transportations header: %w", err)
	}

	var rows []transportationRow
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode transportations: %w", err)
	}

	out := make([]application.TransportationRequest, len(rows))
	for i, row := range rows {
		out[i] = application.TransportationRequest{
			OriginCode:         row.OriginCode,
			DestinationCode:    row.DestinationCode,
			TransportationType: row.TransportationType,
			OperatingDays:      row.OperatingDays,
		}
	}
	return out, nil
}
