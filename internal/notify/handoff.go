// Package notify formats the booking summary handed off to the salon's
// messaging channel and delivers it.
package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// Summary is what the customer tells the salon about a confirmed booking.
type Summary struct {
	Service string
	Date    string
	Time    string
	Name    string
	Phone   string
	Email   *string
}

// FormatMessage renders the pre-filled confirmation message.
func FormatMessage(salonName string, s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola %s! Quiero confirmar mi cita:\n\n", salonName)
	fmt.Fprintf(&b, "• Servicio: %s\n", s.Service)
	fmt.Fprintf(&b, "• Fecha: %s\n", s.Date)
	fmt.Fprintf(&b, "• Hora: %s\n", s.Time)
	fmt.Fprintf(&b, "• Nombre: %s\n", s.Name)
	fmt.Fprintf(&b, "• Teléfono: %s\n", s.Phone)
	if s.Email != nil && strings.TrimSpace(*s.Email) != "" {
		fmt.Fprintf(&b, "• Email: %s\n", strings.TrimSpace(*s.Email))
	}
	b.WriteString("\nPor favor, confirmen la disponibilidad. ¡Gracias!")
	return b.String()
}

// WhatsAppLink builds a wa.me click-to-chat URL with text pre-filled.
// Non-digits in number are dropped.
func WhatsAppLink(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?" + url.Values{"text": {text}}.Encode()
}
