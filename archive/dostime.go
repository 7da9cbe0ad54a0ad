package archive

import "time"

// The MS-DOS date and time formats used by ZIP entry headers pack a
// timestamp into two 16-bit fields. The date holds the day in bits 0-4,
// the month in bits 5-8, and the years since 1980 in bits 9-15. The time
// holds the seconds divided by two in bits 0-4, the minute in bits 5-10,
// and the hour in bits 11-15.
const (
	dosEpochYear = 1980
	dosMaxYear   = dosEpochYear + 1<<7 - 1
)

// DOSDateTime converts t to the MS-DOS date and time fields of a ZIP entry
// header. Times before the 1980 epoch saturate to 1980-01-01 00:00:00 and
// times past the largest representable year saturate to 2107-12-31
// 23:59:58. Odd seconds round down.
func DOSDateTime(t time.Time) (dosDate, dosTime uint16) {
	t = t.UTC()
	switch year := t.Year(); {
	case year < dosEpochYear:
		return packDOSDate(dosEpochYear, 1, 1), packDOSTime(0, 0, 0)
	case year > dosMaxYear:
		return packDOSDate(dosMaxYear, 12, 31), packDOSTime(23, 59, 58)
	}
	return packDOSDate(t.Year(), int(t.Month()), t.Day()),
		packDOSTime(t.Hour(), t.Minute(), t.Second())
}

func packDOSDate(year, month, day int) uint16 {
	return uint16(day) | uint16(month)<<5 | uint16(year-dosEpochYear)<<9
}

func packDOSTime(hour, minute, sec int) uint16 {
	return uint16(sec/2) | uint16(minute)<<5 | uint16(hour)<<11
}
