package models

import (
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var weekdayOrder = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Spanish names are accepted from the availability form.
var weekdayAliases = map[string]string{
	"lunes":     "monday",
	"martes":    "tuesday",
	"miércoles": "wednesday",
	"miercoles": "wednesday",
	"jueves":    "thursday",
	"viernes":   "friday",
	"sábado":    "saturday",
	"sabado":    "saturday",
	"domingo":   "sunday",
}

// Weekdays is an unordered set of weekday names stored as text[] on Postgres.
type Weekdays []string

// NormalizeWeekdays maps aliases to canonical names, drops duplicates and
// sorts Monday first.
func NormalizeWeekdays(days []string) (Weekdays, error) {
	seen := make(map[string]struct{}, len(days))
	out := Weekdays{}
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		if alias, ok := weekdayAliases[name]; ok {
			name = alias
		}
		if weekdayIndex(name) < 0 {
			return nil, fmt.Errorf("unknown weekday %q", d)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return weekdayIndex(out[i]) < weekdayIndex(out[j]) })
	return out, nil
}

func weekdayIndex(name string) int {
	for i, d := range weekdayOrder {
		if d == name {
			return i
		}
	}
	return -1
}

func (w Weekdays) Value() (driver.Value, error) {
	if w == nil {
		w = Weekdays{}
	}
	return pq.StringArray(w).Value()
}

func (w *Weekdays) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	if arr == nil {
		*w = Weekdays{}
		return nil
	}
	*w = Weekdays(arr)
	return nil
}

func (Weekdays) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
