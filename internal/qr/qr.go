// Package qr builds QR payloads and renders them as PNG data URLs.
package qr

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// Size is the rendered edge length in pixels.
const Size = 300

const (
	TypeText    = "text"
	TypeURL     = "url"
	TypeWiFi    = "wifi"
	TypeContact = "contact"
)

var ErrEmptyContent = errors.New("qr content is empty")

type WiFi struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
	Security string `json:"security"`
}

type Contact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
}

// Payload describes what to encode. Text is used for the text and url types
// and when Type is empty.
type Payload struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	URL     string   `json:"url"`
	WiFi    *WiFi    `json:"wifi"`
	Contact *Contact `json:"contact"`
}

// Content returns the string stored in the QR code.
func (p Payload) Content() (string, error) {
	var content string
	switch p.Type {
	case "", TypeText:
		content = p.Text
	case TypeURL:
		content = p.URL
		if content == "" {
			content = p.Text
		}
	case TypeWiFi:
		if p.WiFi == nil || p.WiFi.SSID == "" {
			return "", fmt.Errorf("wifi ssid is required")
		}
		security := p.WiFi.Security
		if security == "" {
			security = "WPA"
		}
		content = fmt.Sprintf("WIFI:T:%s;S:%s;P:%s;;", security, p.WiFi.SSID, p.WiFi.Password)
	case TypeContact:
		if p.Contact == nil || p.Contact.Name == "" {
			return "", fmt.Errorf("contact name is required")
		}
		content = vCard(*p.Contact)
	default:
		return "", fmt.Errorf("unknown qr type %q", p.Type)
	}

	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

func vCard(c Contact) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + c.Name,
		"TEL:" + c.Phone,
		"EMAIL:" + c.Email,
		"ORG:" + c.Organization,
		"END:VCARD",
	}
	return strings.Join(lines, "\n")
}

// Encode renders content as a PNG.
func Encode(content string) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, Size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// DataURL renders content as a base64 PNG data URL.
func DataURL(content string) (string, error) {
	png, err := Encode(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
