package models

// Session — токены SmartAPI после логина.
type Session struct {
	JWT     string
	Refresh string
	Feed    string
}
