package metadata

import "strings"

// QRLabel buduje treść kodu QR naklejanego na laptopa. Zeskanowany kod
// prowadzi do podglądu sprzętu po numerze seryjnym.
type QRLabel struct {
	baseURL string
	serial  string
}

const DefaultQRBaseURL = "https://laptopy.example.com"

func NewQRLabel(baseURL string, serial string) QRLabel {
	if baseURL == "" {
		baseURL = DefaultQRBaseURL
	}

	return QRLabel{
		baseURL: strings.TrimRight(baseURL, "/"),
		serial:  serial,
	}
}

func (q QRLabel) Payload() string {
	return q.baseURL + "/laptop/" + q.serial
}
