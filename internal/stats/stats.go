package stats

type DaysStat struct {
	Period        string `json:"period"` // "week", "month", "year", "all_time"
	DaysCompleted int    `json:"days_completed" db:"days_completed"`
	TotalDays     int    `json:"total_days"`
}

type UserStats struct {
	PrayersToday          int  `json:"prayers_today"`
	TodayComplete         bool `json:"today_complete"`
	DaysThisWeek          int  `json:"days_this_week"`
	DaysThisMonth         int  `json:"days_this_month"`
	DaysThisYear          int  `json:"days_this_year"`
	TotalDaysActive       int  `json:"total_days_active"`
	TotalPrayersCompleted int  `json:"total_prayers_completed"`
	CurrentStreak         int  `json:"current_streak"`
	BestStreak            int  `json:"best_streak"`
	AchievementsCount     int  `json:"achievements_count"`
	AdhkarCompleted       int  `json:"adhkar_completed"`
	QuranPagesRead        int  `json:"quran_pages_read"`
	HadithFavorites       int  `json:"hadith_favorites"`
}
