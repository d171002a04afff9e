package http

import (
	"net/http"
	"strconv"
	"time"

	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/scheduling"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = int64(v)
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDay reads a "date" query parameter as a calendar day in loc,
// defaulting to today when absent.
func ExtractDay(r *http.Request, loc *time.Location, now time.Time) (time.Time, error) {
	s := r.URL.Query().Get("date")
	if s == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc), nil
	}

	day, err := time.ParseInLocation(scheduling.DayKeyFormat, s, loc)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput("invalid date parameter, expected YYYY-MM-DD: " + s)
	}
	return day, nil
}
