package utils

import (
	"hash/fnv"
	"time"
)

// DailyIndex picks a deterministic index into a collection of size n for the
// given day. Every caller gets the same pick all day; different salts rotate
// independently (hadith of the day vs dhikr of the day).
func DailyIndex(day time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}

	h := fnv.New32a()
	h.Write([]byte(day.Format("2006-01-02")))
	h.Write([]byte(salt))

	return int(h.Sum32() % uint32(n))
}
