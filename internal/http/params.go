package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

func pathUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "not a valid uuid")
	}
	return id, nil
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NewValidationError(key, "not a valid uuid")
	}
	return &id, nil
}

// queryInt returns 0 when key is absent.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(key, "must be an integer")
	}
	return n, nil
}

func queryTime(c *fiber.Ctx, key string) (time.Time, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, domain.NewValidationError(key, "must be RFC3339")
	}
	return t, true, nil
}

// readingQuery builds a TemperatureQuery from customer_id, facility_id,
// unit_id, start, end, unit, limit, offset and include_failures. A start
// without an end runs up to now.
func readingQuery(c *fiber.Ctx, now time.Time) (query.TemperatureQuery, error) {
	var opts []query.Option

	for _, f := range []struct {
		key  string
		with func(uuid.UUID) query.Option
	}{
		{"customer_id", query.WithCustomer},
		{"facility_id", query.WithFacility},
		{"unit_id", query.WithUnit},
	} {
		id, err := queryUUID(c, f.key)
		if err != nil {
			return query.TemperatureQuery{}, err
		}
		if id != nil {
			opts = append(opts, f.with(*id))
		}
	}

	start, hasStart, err := queryTime(c, "start")
	if err != nil {
		return query.TemperatureQuery{}, err
	}
	end, hasEnd, err := queryTime(c, "end")
	if err != nil {
		return query.TemperatureQuery{}, err
	}
	switch {
	case hasStart:
		if !hasEnd {
			end = now
		}
		tr, err := query.NewTimeRange(start, end)
		if err != nil {
			return query.TemperatureQuery{}, err
		}
		opts = append(opts, query.WithTimeRange(tr))
	case hasEnd:
		return query.TemperatureQuery{}, domain.NewValidationError("start", "required when end is given")
	}

	if raw := c.Query("unit"); raw != "" {
		u, err := domain.ParseTemperatureUnit(raw)
		if err != nil {
			return query.TemperatureQuery{}, err
		}
		opts = append(opts, query.WithOutputUnit(u))
	}

	if c.Query("limit") != "" {
		n, err := queryInt(c, "limit")
		if err != nil {
			return query.TemperatureQuery{}, err
		}
		opts = append(opts, query.WithLimit(n))
	}
	if c.Query("offset") != "" {
		n, err := queryInt(c, "offset")
		if err != nil {
			return query.TemperatureQuery{}, err
		}
		opts = append(opts, query.WithOffset(n))
	}
	if raw := c.Query("include_failures"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return query.TemperatureQuery{}, domain.NewValidationError("include_failures", "must be a boolean")
		}
		opts = append(opts, query.WithIncludeFailures(b))
	}

	return query.NewTemperatureQuery(opts...)
}
