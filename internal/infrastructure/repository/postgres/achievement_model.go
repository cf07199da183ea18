package postgres

import "time"

type achievementRecordTableModel struct {
	ID            int64      `db:"id"`
	UserID        string     `db:"user_id"`
	AchievementID string     `db:"achievement_id"`
	Unlocked      bool       `db:"unlocked"`
	UnlockedDate  *time.Time `db:"unlocked_date"`
	Progress      float64    `db:"progress"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type achievementRecordInsertModel struct {
	UserID        string     `db:"user_id"`
	AchievementID string     `db:"achievement_id"`
	Unlocked      bool       `db:"unlocked"`
	UnlockedDate  *time.Time `db:"unlocked_date"`
	Progress      float64    `db:"progress"`
}
