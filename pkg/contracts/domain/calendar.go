package domain

import "fmt"

// Locale selects the language of label tables.
type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocaleIndonesian Locale = "id"
)

// Locales lists the supported label languages, default first.
var Locales = []Locale{LocaleEnglish, LocaleIndonesian}

func (l Locale) index() int {
	if l == LocaleIndonesian {
		return 1
	}
	return 0
}

// Season is the dataset's season code (1..4).
type Season int

const (
	SeasonSpring Season = iota + 1
	SeasonSummer
	SeasonFall
	SeasonWinter
)

var seasonLabels = [2][5]string{
	{"", "Spring", "Summer", "Fall", "Winter"},
	{"", "Semi", "Panas", "Gugur", "Dingin"},
}

// Valid reports whether s is a known season code.
func (s Season) Valid() bool { return s >= SeasonSpring && s <= SeasonWinter }

// Label returns the season name in l.
func (s Season) Label(l Locale) string {
	if !s.Valid() {
		return fmt.Sprintf("season(%d)", int(s))
	}
	return seasonLabels[l.index()][s]
}

// Month is the calendar month code (1..12).
type Month int

var monthLabels = [2][13]string{
	{"", "January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	{"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"},
}

// Valid reports whether m is a known month code.
func (m Month) Valid() bool { return m >= 1 && m <= 12 }

// Label returns the month name in l.
func (m Month) Label(l Locale) string {
	if !m.Valid() {
		return fmt.Sprintf("month(%d)", int(m))
	}
	return monthLabels[l.index()][m]
}

// Weekday is the dataset's weekday code, 0 = Sunday.
type Weekday int

var weekdayLabels = [2][7]string{
	{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"},
}

// Valid reports whether d is a known weekday code.
func (d Weekday) Valid() bool { return d >= 0 && d <= 6 }

// Label returns the weekday name in l.
func (d Weekday) Label(l Locale) string {
	if !d.Valid() {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayLabels[l.index()][d]
}

// Weather is the dataset's weathersit code (1..4).
type Weather int

const (
	WeatherClear Weather = iota + 1
	WeatherMist
	WeatherLightPrecipitation
	WeatherHeavyPrecipitation
)

var weatherLabels = [2][5]string{
	{"", "Clear", "Mist", "Light Rain/Snow", "Heavy Rain/Snow"},
	{"", "Cerah", "Berkabut", "Hujan Ringan", "Hujan Lebat"},
}

// Valid reports whether w is a known weather code.
func (w Weather) Valid() bool { return w >= WeatherClear && w <= WeatherHeavyPrecipitation }

// Label returns the weather description in l.
func (w Weather) Label(l Locale) string {
	if !w.Valid() {
		return fmt.Sprintf("weather(%d)", int(w))
	}
	return weatherLabels[l.index()][w]
}

var yesNoLabels = [2][2]string{
	{"No", "Yes"},
	{"Tidak", "Ya"},
}

var workingDayLabels = [2][2]string{
	{"Weekend/Holiday", "Working Day"},
	{"Akhir Pekan/Libur", "Hari Kerja"},
}
