package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/okx/okx/types"
)

func expectedSign(secret, prehash string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(prehash))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestBuildHmacSignature(t *testing.T) {
	ts := "2020-12-08T09:08:57.715Z"
	path := "/api/v5/account/balance?ccy=BTC"

	sig, err := BuildHmacSignature("22582BD0CFF14C41EDBF1AB98506286D", ts, "GET", path, "")
	require.NoError(t, err)
	assert.Equal(t, expectedSign("22582BD0CFF14C41EDBF1AB98506286D", ts+"GET"+path), sig)

	_, err = BuildHmacSignature("", ts, "GET", path, "")
	assert.Error(t, err)
}

func TestCreateHeaders(t *testing.T) {
	creds := &types.ApiKeyCreds{Key: "k", Secret: "s", Passphrase: "p"}
	now := time.Date(2024, 3, 1, 8, 30, 0, 123_000_000, time.FixedZone("CST", 8*3600))
	body := `{"instId":"BTC-USDT-SWAP","lever":"5","mgnMode":"cross"}`

	headers, err := CreateHeaders(creds, HeaderArgs{
		Method:      "post",
		RequestPath: "/api/v5/account/set-leverage",
		Body:        body,
	}, &now)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01T00:30:00.123Z", headers[HeaderAccessTimestamp])
	assert.Equal(t, "k", headers[HeaderAccessKey])
	assert.Equal(t, "p", headers[HeaderAccessPassphrase])
	assert.Equal(t,
		expectedSign("s", "2024-03-01T00:30:00.123Z"+"POST"+"/api/v5/account/set-leverage"+body),
		headers[HeaderAccessSign],
	)
}

func TestCreateHeadersIncompleteCreds(t *testing.T) {
	_, err := CreateHeaders(&types.ApiKeyCreds{Key: "k"}, HeaderArgs{Method: "GET"}, nil)
	assert.Error(t, err)

	_, err = CreateHeaders(nil, HeaderArgs{Method: "GET"}, nil)
	assert.Error(t, err)
}
