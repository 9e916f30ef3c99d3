package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"medtracker/config"
	"medtracker/internal/domain/service"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour

	// TokenTypeAccess identifies short-lived tokens presented on API requests.
	TokenTypeAccess = "access"
	// TokenTypeRefresh identifies long-lived tokens exchanged for new pairs.
	TokenTypeRefresh = "refresh"
)

// jwtService implements service.TokenService with HS256-signed JWTs.
// Access and refresh tokens are signed with independent secrets so a leaked
// access secret cannot mint refresh tokens.
type jwtService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

// NewJWTService constructs the token service from application configuration.
func NewJWTService(cfg *config.Config) service.TokenService {
	return &jwtService{
		accessSecret:  []byte(cfg.SecretKey.Access),
		refreshSecret: []byte(cfg.SecretKey.Refresh),
		issuer:        cfg.Env.ServiceName,
	}
}

// GenerateTokens creates an access/refresh token pair for a user.
// Roles are carried only on the access token; the refresh token grants
// nothing by itself until exchanged.
func (s *jwtService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	now := time.Now()

	accessToken, err := s.sign(service.Claims{
		UserID: userID,
		Roles:  roles,
		Type:   TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenDuration)),
		},
	}, s.accessSecret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign access token")
	}

	refreshToken, err := s.sign(service.Claims{
		UserID: userID,
		Type:   TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(refreshTokenDuration)),
		},
	}, s.refreshSecret)
	if err != nil {
		return "", "", errors.Wrap(err, "sign refresh token")
	}

	return accessToken, refreshToken, nil
}

// ValidateAccessToken parses and verifies an access token.
func (s *jwtService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.parse(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken parses and verifies a refresh token.
func (s *jwtService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.parse(tokenString, s.refreshSecret, TokenTypeRefresh)
}

// GetRefreshTokenDuration returns how long refresh tokens stay valid, used
// when persisting the server-side session record.
func (s *jwtService) GetRefreshTokenDuration() time.Duration {
	return refreshTokenDuration
}

func (s *jwtService) sign(claims service.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

func (s *jwtService) parse(tokenString string, secret []byte, wantType string) (*service.Claims, error) {
	claims := &service.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.Type != wantType {
		return nil, errors.Errorf("unexpected token type: %s", claims.Type)
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token is missing user id")
	}

	return claims, nil
}
