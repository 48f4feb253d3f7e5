package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"yt-insights/domain/apperror"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// parsePagination applies defaults and clamps; malformed integers are rejected.
func parsePagination(limitRaw, offsetRaw string) (int, int, error) {
	limit, err := parseInt("limit", limitRaw, DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	offset, err := parseInt("offset", offsetRaw, 0)
	if err != nil {
		return 0, 0, err
	}
	limit = min(max(limit, 1), MaxLimit)
	offset = max(offset, 0)
	return limit, offset, nil
}

func parseInt(name, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%s must be an integer", name))
	}
	return v, nil
}

func parseFloat(name, raw string, def float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperror.Validation(fmt.Sprintf("%s must be a number", name))
	}
	return v, nil
}

// parseDate reads YYYY-MM-DD as UTC midnight.
func parseDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.UTC)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name))
	}
	return &t, nil
}

// parseIDList reads a comma separated list of positive ids, skipping blanks.
func parseIDList(name, raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperror.Validation(fmt.Sprintf("%s must be a comma separated list of ids", name))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
