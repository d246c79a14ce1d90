package adminapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/jazzyjizz/candycommerce/pkg/common"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}

	userOK := subtle.ConstantTimeCompare([]byte(payload.Username), []byte(s.cfg.Web.AdminUsername)) == 1
	hash := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	passOK := subtle.ConstantTimeCompare([]byte(hash), []byte(s.passwordHash)) == 1
	if !userOK || !passOK {
		return fail(c, http.StatusUnauthorized, "AUTH_FAILED", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"usr": payload.Username,
		"adm": true,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	return ok(c, map[string]interface{}{
		"token":    token,
		"username": payload.Username,
		"is_admin": true,
	})
}
