package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTTL es la ventana de validez de un access token.
const DefaultAccessTTL = 30 * time.Minute

// JWTService emite y valida tokens JWT firmados con HMAC. No guarda estado
// mutable, por lo que se puede compartir entre requests concurrentes.
type JWTService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
}

// Claims es el payload {sub, email, iat, exp} del token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTService acepta HS256, HS384 o HS512; un algoritmo vacio es HS256.
func NewJWTService(secret, algorithm string) (*JWTService, error) {
	algorithm = strings.ToUpper(strings.TrimSpace(algorithm))
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &JWTService{
		secret: []byte(secret),
		method: method,
	}, nil
}

// Algorithm devuelve el identificador del algoritmo configurado.
func (s *JWTService) Algorithm() string {
	return s.method.Alg()
}

// Issue firma {sub, email, iat: now, exp: now+ttl}.
func (s *JWTService) Issue(subject, email string, now time.Time, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenSecretMissing
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("%w: empty subject", ErrValidation)
	}
	if ttl <= 0 {
		return "", fmt.Errorf("%w: non-positive ttl", ErrValidation)
	}
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify decodifica los tres segmentos, comprueba la firma antes de leer
// cualquier claim y despues compara exp contra now en segundos enteros.
// La libreria no valida claims.
func (s *JWTService) Verify(tokenString string, now time.Time) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenBadSignature
	}
	tokenString = strings.TrimSpace(tokenString)
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return Claims{}, ErrTokenMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	for _, segment := range parts[:2] {
		if !isJSONSegment(parser, segment) {
			return Claims{}, ErrTokenMalformed
		}
	}
	signature, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return Claims{}, ErrTokenMalformed
	}
	if err := s.method.Verify(parts[0]+"."+parts[1], signature, s.secret); err != nil {
		return Claims{}, ErrTokenBadSignature
	}

	var claims Claims
	_, err = parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return Claims{}, ErrTokenBadSignature
		}
		return Claims{}, ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.ExpiresAt == nil {
		return Claims{}, ErrTokenMalformed
	}
	// exp se guarda en segundos; now se trunca igual.
	if claims.ExpiresAt.Time.Before(now.Truncate(time.Second)) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}

func isJSONSegment(parser *jwt.Parser, segment string) bool {
	raw, err := parser.DecodeSegment(segment)
	return err == nil && json.Valid(raw)
}
