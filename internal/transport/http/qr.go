package http

import (
	"log"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

// NewQRHandler serves a PNG QR code pointing at the public join URL, so a
// phone can be pointed at a screen running the server.
func NewQRHandler(joinURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			log.Printf("qr encode failed: %v", err)
			http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}
}
