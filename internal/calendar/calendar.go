package calendar

import "time"

type Day struct {
	Date      time.Time `json:"date"`
	WorkedOut bool      `json:"worked_out"`
	IsToday   bool      `json:"is_today"`
}

type Response struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Days  []*Day `json:"days"`
}

// BuildMonth expands a month into one Day per calendar date, marking the
// dates present in logged and the reference date. logged keys use the
// "2006-01-02" format.
func BuildMonth(year int, month int, logged map[string]bool, today time.Time) *Response {
	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)
	todayStr := today.Format("2006-01-02")

	var days []*Day
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		days = append(days, &Day{
			Date:      d,
			WorkedOut: logged[dateStr],
			IsToday:   dateStr == todayStr,
		})
	}

	return &Response{
		Year:  year,
		Month: month,
		Days:  days,
	}
}
