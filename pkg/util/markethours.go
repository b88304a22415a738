package util

import (
	"time"
	_ "time/tzdata"
)

const (
	TZIndia   = "Asia/Kolkata"
	TZNewYork = "America/New_York"

	displayLayout = "02 Jan 2006, 03:04 PM"
)

// Session describes one exchange's regular trading window in its local timezone.
type Session struct {
	Label      string
	Timezone   string
	OpenHour   int
	OpenMinute int
	CloseHour  int
	CloseMin   int
	OpenMsg    string
	ClosedMsg  string
}

// MarketStatus is a display-grade snapshot of whether a session is open.
type MarketStatus struct {
	IsOpen          bool   `json:"isOpen"`
	MarketLabel     string `json:"marketLabel"`
	Timezone        string `json:"timezone"`
	LocalTime       string `json:"localTime"`
	NextOpenIST     string `json:"nextOpenIst"`
	SessionCloseIST string `json:"sessionCloseIst"`
	Message         string `json:"message"`
}

var (
	IndiaSession = Session{
		Label: "Indian Market (NSE/BSE)", Timezone: TZIndia,
		OpenHour: 9, OpenMinute: 15, CloseHour: 15, CloseMin: 30,
		OpenMsg: "Market is open (IST).", ClosedMsg: "Market is closed (IST).",
	}
	FundSession = Session{
		Label: "Mutual Fund / NAV", Timezone: TZIndia,
		OpenHour: 9, OpenMinute: 15, CloseHour: 15, CloseMin: 30,
		OpenMsg: "Market is open (IST).", ClosedMsg: "Market is closed (IST).",
	}
	USSession = Session{
		Label: "US Market (NYSE/NASDAQ)", Timezone: TZNewYork,
		OpenHour: 9, OpenMinute: 30, CloseHour: 16, CloseMin: 0,
		OpenMsg: "US market is open.", ClosedMsg: "US market is closed.",
	}
)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Status evaluates the session at now. Holidays are not modelled.
func (s Session) Status(now time.Time) MarketStatus {
	loc := mustLocation(s.Timezone)
	ist := mustLocation(TZIndia)
	local := now.In(loc)

	minutes := local.Hour()*60 + local.Minute()
	open := s.OpenHour*60 + s.OpenMinute
	closing := s.CloseHour*60 + s.CloseMin
	isOpen := !IsWeekend(local) && minutes >= open && minutes <= closing

	closeAt := time.Date(local.Year(), local.Month(), local.Day(), s.CloseHour, s.CloseMin, 0, 0, loc)
	msg := s.ClosedMsg
	if isOpen {
		msg = s.OpenMsg
	}
	return MarketStatus{
		IsOpen:          isOpen,
		MarketLabel:     s.Label,
		Timezone:        s.Timezone,
		LocalTime:       local.Format(displayLayout),
		NextOpenIST:     s.NextOpen(now).In(ist).Format(displayLayout),
		SessionCloseIST: closeAt.In(ist).Format(displayLayout),
		Message:         msg,
	}
}

// NextOpen returns the next session open strictly after now, skipping weekends.
func (s Session) NextOpen(now time.Time) time.Time {
	loc := mustLocation(s.Timezone)
	local := now.In(loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), s.OpenHour, s.OpenMinute, 0, 0, loc)
	for i := 0; i < 8; i++ {
		if candidate.After(local) && !IsWeekend(candidate) {
			return candidate
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate
}
