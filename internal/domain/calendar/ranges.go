package calendar

// DateRangesOverlap compara intervalos de datas fechados nas duas pontas.
func DateRangesOverlap(aStart, aEnd, bStart, bEnd Date) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// TimeRangesOverlap compara intervalos semiabertos [start, end) no mesmo dia.
func TimeRangesOverlap(aStart, aEnd, bStart, bEnd TimeOfDay) bool {
	return aStart < bEnd && bStart < aEnd
}

// IsValidDateRange aceita reservas de um único dia (start == end).
func IsValidDateRange(start, end Date) bool {
	if start.IsZero() || end.IsZero() {
		return false
	}
	return !end.Before(start)
}

// IsValidTimeRange exige end estritamente depois de start.
func IsValidTimeRange(start, end TimeOfDay) bool {
	return end > start
}

// ExclusiveEnd converte o último dia de um intervalo fechado no
// primeiro dia fora dele.
func ExclusiveEnd(lastDay Date) Date {
	return lastDay.AddDays(1)
}
