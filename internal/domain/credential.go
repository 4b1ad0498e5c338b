package domain

import (
	"slices"
	"strings"
)

// RoleAdmin — роль с полным доступом (удаление, суммы, все пункты меню).
const RoleAdmin = "Administrador"

// Credential — учётная запись консоли, как её отдаёт ресурс login.
type Credential struct {
	ID       int64    `json:"id"`
	Usuario  string   `json:"usuario"`
	Password string   `json:"password,omitempty"`
	Cargo    string   `json:"cargo"`
	Formatos []string `json:"formatos,omitempty"`
	Token    string   `json:"token,omitempty"`
}

// IsAdmin — роль администратора.
func (c *Credential) IsAdmin() bool {
	return c != nil && c.Cargo == RoleAdmin
}

// CanAccess — доступ к разделу: администратору всё, остальным по списку formatos.
func (c *Credential) CanAccess(key string) bool {
	if c == nil {
		return false
	}
	return c.IsAdmin() || slices.Contains(c.Formatos, key)
}

// Theme — предпочтение оформления.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme — разбор значения темы; пустое значение -> system.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	case ThemeSystem, "":
		return ThemeSystem, true
	default:
		return "", false
	}
}

// Resolve — фактическая тема: system раскрывается по предпочтению ОС.
func (t Theme) Resolve(systemPrefersDark bool) Theme {
	if t != ThemeSystem {
		return t
	}
	if systemPrefersDark {
		return ThemeDark
	}
	return ThemeLight
}
