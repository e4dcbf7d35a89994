// Package manifest отдаёт веб-манифест приложения.
package manifest

import (
	"encoding/json"
	"net/http"
)

// Manifest описывает содержимое site.webmanifest.
type Manifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	StartURL        string `json:"start_url"`
	Display         string `json:"display"`
	BackgroundColor string `json:"background_color"`
	ThemeColor      string `json:"theme_color"`
}

// Handler возвращает обработчик GET /site.webmanifest.
// Пишет тело напрямую, чтобы сохранить тип application/manifest+json.
func Handler() http.HandlerFunc {
	body, _ := json.Marshal(Manifest{
		Name:            "Vehicle Tracker",
		ShortName:       "Vehicles",
		StartURL:        "/dashboard",
		Display:         "standalone",
		BackgroundColor: "#ffffff",
		ThemeColor:      "#212529",
	})
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		_, _ = w.Write(body)
	}
}
