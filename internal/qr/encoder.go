package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

const DefaultPixelWidth = 300

// Payload is the scannable content embedded in a pass QR image. Guard
// stations decode it offline and confirm against the service by pass code.
type Payload struct {
	ID             int64     `json:"id"`
	Code           string    `json:"code"`
	VisitorName    string    `json:"visitorName"`
	DocumentNumber string    `json:"documentNumber"`
	ValidUntil     time.Time `json:"validUntil"`
	Type           string    `json:"type"`
	Timestamp      time.Time `json:"timestamp"`
}

// Result is a rendered QR artifact: the image as a data URL plus the raw
// JSON content that was encoded.
type Result struct {
	PassID  int64  `json:"passId"`
	DataURL string `json:"qrDataUrl"`
	Content string `json:"content"`
}

// Encoder renders pass payloads as PNG data URLs.
type Encoder struct {
	pixelWidth int
}

// NewEncoder creates an encoder with the given pixel width; width <= 0 falls
// back to DefaultPixelWidth.
func NewEncoder(pixelWidth int) *Encoder {
	if pixelWidth <= 0 {
		pixelWidth = DefaultPixelWidth
	}
	return &Encoder{pixelWidth: pixelWidth}
}

// Encode marshals the payload and renders it with the highest error
// correction level, so the code survives print wear and low-quality camera
// capture at the gate.
func (e *Encoder) Encode(payload Payload) (*Result, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}

	code, err := qrcode.New(string(content), qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}
	code.DisableBorder = false

	png, err := code.PNG(e.pixelWidth)
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	return &Result{
		PassID:  payload.ID,
		DataURL: dataURL,
		Content: string(content),
	}, nil
}
