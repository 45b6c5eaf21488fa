package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yockii/bionic_reader/internal/constant"
	"github.com/yockii/bionic_reader/pkg/config"
	"github.com/yockii/bionic_reader/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

type authService struct {
	// clientID -> bcrypt(secret)
	clients map[string]string
	secret  []byte
	expire  time.Duration
}

// NewAuthService 从配置读取客户端和JWT参数
func NewAuthService() AuthService {
	return NewAuthServiceWith(
		config.GetStringMapString("security.clients"),
		config.GetJWTSecret(),
		time.Duration(config.GetInt("jwt.expire"))*time.Second,
	)
}

func NewAuthServiceWith(clients map[string]string, secret []byte, expire time.Duration) AuthService {
	return &authService{
		clients: clients,
		secret:  secret,
		expire:  expire,
	}
}

// Login 校验客户端密钥并签发token
func (s *authService) Login(ctx context.Context, clientID, secret string) (string, error) {
	if clientID == "" || secret == "" {
		return "", constant.ErrInvalidParams
	}
	hash, ok := s.clients[clientID]
	if !ok {
		return "", constant.ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		logger.Warn("客户端密钥校验失败", logger.F(constant.LogFieldClientID, clientID))
		return "", constant.ErrInvalidCredential
	}

	now := time.Now()
	claims := Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		logger.Error("生成token失败", logger.F("error", err))
		return "", constant.ErrInternalError
	}
	return signedToken, nil
}

func (s *authService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	// 解析token
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的token解析方式: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, constant.ErrTokenExpired
		}
		return nil, constant.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, constant.ErrInvalidToken
	}
	// 客户端被移除后旧token失效
	if _, ok := s.clients[claims.ClientID]; !ok {
		return nil, constant.ErrInvalidToken
	}
	return claims, nil
}
