package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/habitual/internal/domain"
	"github.com/spf13/pflag"
)

// dateKeyFlag parses --date values. Besides YYYY-MM-DD it accepts "today"
// and "yesterday", resolved against the App clock.
type dateKeyFlag struct {
	now func() time.Time
	key domain.DateKey
}

var _ pflag.Value = (*dateKeyFlag)(nil)

func newDateKeyFlag(now func() time.Time) *dateKeyFlag {
	return &dateKeyFlag{now: now}
}

func (f *dateKeyFlag) String() string { return string(f.key) }

func (f *dateKeyFlag) Type() string { return "date" }

func (f *dateKeyFlag) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		f.key = domain.KeyOf(f.now())
		return nil
	case "yesterday":
		f.key = domain.KeyOf(f.now()).AddDays(-1)
		return nil
	}
	k, err := domain.ParseKey(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use YYYY-MM-DD, today or yesterday")
	}
	f.key = k
	return nil
}

// orToday returns the parsed key, or today when the flag was not given.
func (f *dateKeyFlag) orToday() domain.DateKey {
	if f.key == "" {
		return domain.KeyOf(f.now())
	}
	return f.key
}

// statusFlag parses --set values into a DayStatus.
type statusFlag struct {
	status domain.DayStatus
}

var _ pflag.Value = (*statusFlag)(nil)

func (f *statusFlag) String() string { return string(f.status) }

func (f *statusFlag) Type() string { return "status" }

func (f *statusFlag) Set(s string) error {
	st, err := domain.ParseDayStatus(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return fmt.Errorf("use done, missed or pending")
	}
	f.status = st
	return nil
}
