package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (минута час день месяц день-недели).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseCron парсит cron-выражение из пяти стандартных полей.
func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return schedule, nil
}
