package model

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// UpdateThemeRequest is the payload for changing the theme.
type UpdateThemeRequest struct {
	Theme Theme `json:"theme" binding:"required,oneof=light dark"`
}
