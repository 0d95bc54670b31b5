package models

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"math/big"
	"strconv"
	"strings"
	"time"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

const humanIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewHumanID returns a reference like TRF-MB3X9K2L-7QZA: the creation time in
// base36 followed by four random characters.
func NewHumanID(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	return "TRF-" + ts + "-" + randomSuffix(rand.Reader, 4)
}

// randomSuffix draws each character uniformly from humanIDAlphabet.
func randomSuffix(r io.Reader, n int) string {
	size := big.NewInt(int64(len(humanIDAlphabet)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(r, size)
		if err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		out[i] = humanIDAlphabet[v.Int64()]
	}
	return string(out)
}

// QRSlipType tags scannable payloads that identify a transfer slip.
const QRSlipType = "transfer_slip"

// QRPayload is what a scanner reads off a printed slip.
type QRPayload struct {
	Type       string `json:"type"`
	TransferID string `json:"transferId"`
	HumanID    string `json:"humanId"`
}

func EncodeQRPayload(slipID id.SlipID, humanID string) (string, error) {
	b, err := json.Marshal(QRPayload{Type: QRSlipType, TransferID: slipID.String(), HumanID: humanID})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode qr payload")
	}
	return string(b), nil
}

// DecodeQRPayload parses a scanned payload and returns the slip id it names.
func DecodeQRPayload(raw string) (id.SlipID, error) {
	var p QRPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return id.SlipID{}, dErrors.New(dErrors.CodeBadRequest, "qr payload is not valid json")
	}
	if p.Type != QRSlipType {
		return id.SlipID{}, dErrors.New(dErrors.CodeBadRequest, "qr payload is not a transfer slip")
	}
	return id.ParseSlipID(p.TransferID)
}
