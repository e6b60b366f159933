package models

import "time"

// PinResult возвращается после успешного пиннинга загрузки.
type PinResult struct {
	CID       string
	Size      int64
	Files     int
	Duplicate bool
}

// Pin описывает закреплённый контент на стороне стаба пиннинг-сервиса.
type Pin struct {
	CID       string    `json:"cid"`
	Size      int64     `json:"size"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone возвращает копию структуры, чтобы не делиться внутренними слайсами.
func (p Pin) Clone() Pin {
	out := p
	out.Files = append([]string(nil), p.Files...)
	return out
}
