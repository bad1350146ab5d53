package domain

import "time"

// Customer 客戶
type Customer struct {
	ID    string
	Name  string
	Email string
	// PasswordHash: bcrypt 雜湊，永遠不對外輸出
	PasswordHash string
	// Code: 3 碼客戶代碼
	Code      string
	CreatedAt time.Time
}
