package database

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	TenantID *uint

	Severity string
	Status   string
	Type     string

	From *time.Time
	To   *time.Time

	Search string

	offset *int
	limit  *int
}

func (c Condition) Offset() int {
	if c.offset != nil {
		return *c.offset
	}
	return 0
}

func (c Condition) Limit(def int) int {
	if c.limit != nil {
		return *c.limit
	}
	return def
}

var re = regexp.MustCompile(`[^a-zA-ZåäöÅÄÖ0-9 _\-.:,;()]+|[%]`)

func WithTenantID(tenantID uint) ConditionFunc {
	return func(c *Condition) *Condition {
		c.TenantID = &tenantID
		return c
	}
}

func WithSeverity(severity string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Severity = severity
		return c
	}
}

func WithStatus(status string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Status = status
		return c
	}
}

func WithType(assetType string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Type = assetType
		return c
	}
}

func WithTimespan(from, to time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		if !from.IsZero() {
			c.From = &from
		}
		if !to.IsZero() {
			c.To = &to
		}
		return c
	}
}

func WithSearch(s string) ConditionFunc {
	return func(c *Condition) *Condition {
		s = re.ReplaceAllString(s, "")
		c.Search = strings.TrimSpace(s)
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

// ParseConditions turns url query parameters into condition funcs. Unknown
// parameters are ignored.
func ParseConditions(params map[string][]string) []ConditionFunc {
	conditions := make([]ConditionFunc, 0)

	var from, to time.Time

	for k, v := range params {
		if len(v) == 0 || v[0] == "" {
			continue
		}

		switch strings.ToLower(k) {
		case "tenantid":
			if id, err := strconv.Atoi(v[0]); err == nil && id > 0 {
				conditions = append(conditions, WithTenantID(uint(id)))
			}
		case "severity":
			conditions = append(conditions, WithSeverity(v[0]))
		case "status":
			conditions = append(conditions, WithStatus(v[0]))
		case "type":
			conditions = append(conditions, WithType(v[0]))
		case "search":
			conditions = append(conditions, WithSearch(v[0]))
		case "from":
			if t, err := parseTimestamp(v[0]); err == nil {
				from = t
			}
		case "to":
			if t, err := parseTimestamp(v[0]); err == nil {
				to = t
			}
		case "limit":
			if limit, err := strconv.Atoi(v[0]); err == nil {
				conditions = append(conditions, WithLimit(limit))
			}
		case "skip", "offset":
			if offset, err := strconv.Atoi(v[0]); err == nil {
				conditions = append(conditions, WithOffset(offset))
			}
		}
	}

	if !from.IsZero() || !to.IsZero() {
		conditions = append(conditions, WithTimespan(from, to))
	}

	return conditions
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	// the dashboard also sends epoch milliseconds
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Parse("2006-01-02", s)
}
