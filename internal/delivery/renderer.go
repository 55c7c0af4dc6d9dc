package delivery

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	cardWidth  = 900
	cardHeight = 350
	qrSize     = 260

	colorBackground = "#0f172a"
	colorCard       = "#020617"
	colorAccent     = "#38bdf8"
	colorMain       = "#e5e7eb"
	colorMuted      = "#94a3b8"
)

// CardRenderer draws the visual access pass: dark card, accent bar, the
// attendee details on the left and the scannable QR code on the right.
// Fonts are embedded so rendering has no filesystem dependencies.
type CardRenderer struct {
	issuer    string
	titleFace font.Face
	labelFace font.Face
	valueFace font.Face
	smallFace font.Face
}

func NewCardRenderer(issuer string) (*CardRenderer, error) {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	face := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}

	r := &CardRenderer{issuer: issuer}
	if r.titleFace, err = face(bold, 32); err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}
	if r.labelFace, err = face(regular, 18); err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	if r.valueFace, err = face(regular, 20); err != nil {
		return nil, fmt.Errorf("value face: %w", err)
	}
	if r.smallFace, err = face(regular, 14); err != nil {
		return nil, fmt.Errorf("small face: %w", err)
	}
	return r, nil
}

func (r *CardRenderer) Render(job app.DeliveryJob) ([]byte, error) {
	qr, err := qrcode.New(job.Payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	dc := gg.NewContext(cardWidth, cardHeight)
	dc.SetHexColor(colorBackground)
	dc.Clear()

	dc.SetHexColor(colorCard)
	dc.DrawRoundedRectangle(20, 20, cardWidth-40, cardHeight-40, 26)
	dc.Fill()
	dc.SetHexColor(colorAccent)
	dc.DrawRectangle(20, 20, 12, cardHeight-40)
	dc.Fill()

	const left = 70.0
	dc.SetFontFace(r.titleFace)
	dc.SetHexColor(colorMain)
	dc.DrawString("Event Access Pass", left, 80)

	rows := []struct {
		label string
		value string
	}{
		{"Name", job.Name},
		{"Event", job.Event},
		{"Ticket ID", job.TicketID},
	}
	y := 138.0
	for _, row := range rows {
		dc.SetFontFace(r.labelFace)
		dc.SetHexColor(colorMuted)
		dc.DrawString(row.label, left, y)
		dc.SetFontFace(r.valueFace)
		dc.SetHexColor(colorMain)
		dc.DrawString(row.value, left+140, y)
		y += 45
	}

	dc.SetFontFace(r.smallFace)
	dc.SetHexColor(colorMuted)
	footer := fmt.Sprintf("Show this pass at entry • QR is mandatory • Issued by %s", r.issuer)
	dc.DrawString(footer, left, cardHeight-45)

	dc.DrawImage(qr.Image(qrSize), cardWidth-320, 45)
	dc.DrawString("Scan at gate", cardWidth-260, 325)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode card png: %w", err)
	}
	return buf.Bytes(), nil
}
