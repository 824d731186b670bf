package models

// Session is the decrypted contents of the user_token cookie.
type Session struct {
	Token        string `json:"token"`
	UserID       ID     `json:"user_id"`
	UserName     string `json:"user_name"`
	UserType     Role   `json:"user_type"`
	IsDaily      bool   `json:"is_daily"`
	IsOccasional bool   `json:"is_occasional"`
}

// Complete reports whether every field a guard relies on is populated.
// is_daily / is_occasional are booleans and always present once decoded.
func (s *Session) Complete() bool {
	if s == nil {
		return false
	}
	return s.Token != "" && s.UserID != "" && s.UserName != "" && s.UserType.Valid()
}
