package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	defaultProfileStep = 100.0
	defaultLimit       = 20
	maxLimit           = 200
)

func parseAltitudeQuery(r *http.Request) (float64, error) {
	s := r.URL.Query().Get("altitude")
	if s == "" {
		return 0, errors.New("missing 'altitude' (meters)")
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid 'altitude' %q (expected number)", s)
	}
	return h, nil
}

func parseProfileQuery(r *http.Request) (from, to, step float64, err error) {
	q := r.URL.Query()

	fromStr := q.Get("from")
	if fromStr == "" {
		fromStr = "0"
	}
	from, err = strconv.ParseFloat(fromStr, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid 'from' %q (expected number)", fromStr)
	}

	toStr := q.Get("to")
	if toStr == "" {
		return 0, 0, 0, errors.New("missing 'to' (meters)")
	}
	to, err = strconv.ParseFloat(toStr, 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid 'to' %q (expected number)", toStr)
	}

	step = defaultProfileStep
	if s := q.Get("step"); s != "" {
		step, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid 'step' %q (expected number)", s)
		}
	}
	if step <= 0 {
		return 0, 0, 0, errors.New("'step' must be > 0")
	}
	if to < from {
		return 0, 0, 0, errors.New("'from' must be <= 'to'")
	}

	return from, to, step, nil
}

func parseLimitQuery(r *http.Request) (int, error) {
	limit := defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid 'limit' %q (expected integer)", s)
		}
		if n <= 0 {
			return 0, errors.New("'limit' must be > 0")
		}
		if n > maxLimit {
			return 0, fmt.Errorf("'limit' must be <= %d", maxLimit)
		}
		limit = n
	}
	return limit, nil
}
