package utils

import "time"

// DateLayout é o formato de data usado pela Meta API e pelo warehouse
const DateLayout = "2006-01-02"

func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ISOWeek retorna o ano e a semana ISO de uma data no formato YYYY-MM-DD.
// Datas inválidas retornam (0, 0).
func ISOWeek(dateStr string) (int, int) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return 0, 0
	}

	return date.ISOWeek()
}

// SplitDateRange divide um intervalo [since, until] em blocos de até chunkDays
// dias. O intervalo é inclusivo nas duas pontas.
func SplitDateRange(since, until time.Time, chunkDays int) [][2]time.Time {
	if chunkDays < 1 {
		chunkDays = 1
	}

	var chunks [][2]time.Time

	current := since
	for !current.After(until) {
		end := current.AddDate(0, 0, chunkDays-1)
		if end.After(until) {
			end = until
		}

		chunks = append(chunks, [2]time.Time{current, end})
		current = end.AddDate(0, 0, 1)
	}

	return chunks
}
