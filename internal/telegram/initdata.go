package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

// webAppDataKey seeds the secret key derivation per the Telegram WebApp
// validation algorithm.
const webAppDataKey = "WebAppData"

// initDataUser mirrors the JSON user object embedded in initData.
type initDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyInitData checks the HMAC signature of a raw initData query string
// against the bot token and returns the decoded fields on success.
func VerifyInitData(raw, botToken string) (url.Values, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "init data is empty")
	}
	if botToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bot token is not configured")
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed init data")
	}

	providedHash := values.Get("hash")
	if providedHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "init data missing hash")
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, values.Get(key)))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secretMac := hmac.New(sha256.New, []byte(webAppDataKey))
	secretMac.Write([]byte(botToken))
	secret := secretMac.Sum(nil)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(checkString))
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(providedHash)) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "init data signature mismatch")
	}

	return values, nil
}

// IdentityFromInitData verifies the payload and resolves the capability
// variant. A verified payload without a user object is the no-user
// variant, not an error.
func IdentityFromInitData(raw, botToken string) (Identity, error) {
	values, err := VerifyInitData(raw, botToken)
	if err != nil {
		return Identity{Availability: AvailabilityUnavailable}, err
	}

	userJSON := values.Get("user")
	if strings.TrimSpace(userJSON) == "" {
		return Identity{Availability: AvailabilityNoUser}, nil
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return Identity{Availability: AvailabilityUnavailable},
			pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed init data user")
	}
	if user.ID == 0 {
		return Identity{Availability: AvailabilityNoUser}, nil
	}

	return Identity{
		Availability: AvailabilityUser,
		UserID:       user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
	}, nil
}
