package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// NewSnapClient returns nil when no server key is configured; online orders
// are then confirmed without a gateway redirect.
func NewSnapClient(serverKey, env string) *snap.Client {
	if serverKey == "" {
		return nil
	}
	e := midtrans.Sandbox
	if env == "production" {
		e = midtrans.Production
	}

	var client snap.Client
	client.New(serverKey, e)
	return &client
}

// VerifySignature checks a notification's signature_key, which is
// SHA512(order_id + status_code + gross_amount + server_key) in hex.
func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {

	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
