package sessiontoken

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

const (
	tokenTTL       = 24 * time.Hour
	redisKeyPrefix = "clinic:session:"
)

// TokenStore issues RS256 resume tokens for authenticated sessions. The
// token on disk carries only a reference (jti); the credentials live in
// redis under that reference, so revoking a session is a single key delete
// and the token file never holds a secret.
type TokenStore struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	redis      *redis.Client
	path       string
}

var _ ports.SessionTokenStore = (*TokenStore)(nil)

func NewTokenStore(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, redisClient *redis.Client, path string) *TokenStore {
	return &TokenStore{
		privateKey: privateKey,
		publicKey:  publicKey,
		redis:      redisClient,
		path:       path,
	}
}

type storedCredentials struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

func (t *TokenStore) Issue(ctx context.Context, sess *domain.Session) error {
	if !sess.Authenticated() {
		return domain.ErrNotAuthenticated
	}

	jti := uuid.NewString()
	payload, err := json.Marshal(storedCredentials{Email: sess.Email, Secret: sess.Secret})
	if err != nil {
		return err
	}
	if err := t.redis.Set(ctx, redisKeyPrefix+jti, payload, tokenTTL).Err(); err != nil {
		return err
	}

	claims := jwt.MapClaims{
		"sub":  sess.Email,
		"role": string(sess.Tier),
		"jti":  jti,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(t.privateKey)
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, []byte(signed), 0o600)
}

// Restore returns the credentials referenced by the token on disk. No file,
// an unverifiable token, or a revoked/expired reference all come back as
// empty credentials, never as an error that would block the terminal.
func (t *TokenStore) Restore(ctx context.Context) (string, string, error) {
	raw, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}

	jti, err := t.parseTokenID(string(raw))
	if err != nil {
		return "", "", nil
	}

	payload, err := t.redis.Get(ctx, redisKeyPrefix+jti).Bytes()
	if errors.Is(err, redis.Nil) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}

	var creds storedCredentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return "", "", nil
	}
	return creds.Email, creds.Secret, nil
}

func (t *TokenStore) Revoke(ctx context.Context) error {
	raw, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if jti, err := t.parseTokenID(string(raw)); err == nil {
		if err := t.redis.Del(ctx, redisKeyPrefix+jti).Err(); err != nil {
			return err
		}
	}
	return os.Remove(t.path)
}

func (t *TokenStore) parseTokenID(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.publicKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", jwt.ErrTokenInvalidId
	}
	return jti, nil
}
