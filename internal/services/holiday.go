package services

import (
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"
)

// HolidayService answers whether a given date is a working day in a country.
// The digest scheduler uses it to skip holiday sends.
type HolidayService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewHolidayService() *HolidayService {
	s := &HolidayService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.initCalendars()
	return s
}

func (s *HolidayService) initCalendars() {
	s.calendars["TR"] = s.createCalendar("Turkey", turkishHolidays...)
	s.calendars["US"] = s.createCalendar("United States", us.Holidays...)
	s.calendars["GB"] = s.createCalendar("United Kingdom", gb.Holidays...)
	s.calendars["DE"] = s.createCalendar("Germany", de.Holidays...)
	s.calendars["FR"] = s.createCalendar("France", fr.Holidays...)
	s.calendars["NL"] = s.createCalendar("Netherlands", nl.Holidays...)
}

// turkishHolidays covers the fixed national holidays. Religious holidays
// follow the lunar calendar and are not modelled here.
var turkishHolidays = []*cal.Holiday{
	{Name: "Yılbaşı", Month: time.January, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Ulusal Egemenlik ve Çocuk Bayramı", Month: time.April, Day: 23, Func: cal.CalcDayOfMonth},
	{Name: "Emek ve Dayanışma Günü", Month: time.May, Day: 1, Func: cal.CalcDayOfMonth},
	{Name: "Atatürk'ü Anma, Gençlik ve Spor Bayramı", Month: time.May, Day: 19, Func: cal.CalcDayOfMonth},
	{Name: "Demokrasi ve Milli Birlik Günü", Month: time.July, Day: 15, Func: cal.CalcDayOfMonth},
	{Name: "Zafer Bayramı", Month: time.August, Day: 30, Func: cal.CalcDayOfMonth},
	{Name: "Cumhuriyet Bayramı", Month: time.October, Day: 29, Func: cal.CalcDayOfMonth},
}

func (s *HolidayService) createCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

func (s *HolidayService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == "CN" {
		return s.isWorkdayChina(t)
	}

	if countryCode == "NONE" {
		return !cal.IsWeekend(t)
	}

	c, ok := s.calendars[countryCode]
	if !ok {
		return !cal.IsWeekend(t)
	}

	return c.IsWorkday(t)
}

// isWorkdayChina uses the official holiday table, which includes shifted
// make-up working weekends.
func (s *HolidayService) isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay())

	if holiday != nil {
		return holiday.IsWork()
	}

	weekday := t.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}

func (s *HolidayService) IsHoliday(t time.Time, countryCode string) bool {
	return !s.IsWorkday(t, countryCode)
}

type CountryInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *HolidayService) GetSupportedCountries() []CountryInfo {
	return []CountryInfo{
		{Code: "TR", Name: "Turkey"},
		{Code: "CN", Name: "China"},
		{Code: "US", Name: "United States"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "DE", Name: "Germany"},
		{Code: "FR", Name: "France"},
		{Code: "NL", Name: "Netherlands"},
		{Code: "NONE", Name: "Weekdays Only (Mon-Fri)"},
	}
}
