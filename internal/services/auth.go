package services

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified caller extracted from a bearer credential issued
// by the external identity provider.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
	IsAdmin   bool
}

// TokenService verifies bearer tokens minted by the identity provider. This
// service never issues user tokens itself.
type TokenService struct {
	Secret []byte
	Issuer string
}

func (t TokenService) ParseToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer), jwt.WithValidMethods([]string{"HS256"}))
	return token, claims, err
}

// Authenticate verifies the credential and yields the caller identity.
func (t TokenService) Authenticate(tokenStr string) (Identity, error) {
	token, claims, err := t.ParseToken(strings.TrimSpace(tokenStr))
	if err != nil || !token.Valid {
		return Identity{}, ErrUnauthorized("Authentication failed")
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return Identity{}, ErrUnauthorized("Authentication failed")
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	isAdmin, _ := claims["admin"].(bool)
	return Identity{
		SubjectID: subject,
		Email:     email,
		Name:      name,
		IsAdmin:   isAdmin,
	}, nil
}
