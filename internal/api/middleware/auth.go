package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/service"
	jwtutil "github.com/mbtimate/mbtimate-backend/pkg/jwt"
)

// Auth JWT 인증 미들웨어.
// 토큰 서명 검증 후 Redis 세션 존재 여부까지 확인하므로
// 로그아웃된 토큰은 만료 전이라도 거부된다
func Auth(jwtManager *jwtutil.JWTManager, authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Authorization 헤더에서 토큰 추출
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// "Bearer <token>" 형식 파싱
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		token := parts[1]

		// 토큰 검증
		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// 세션 확인 (로그아웃 시 세션이 삭제된다)
		valid, err := authService.ValidateSession(c.Request.Context(), claims.SessionID)
		if err != nil || !valid {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired, please login again",
			})
			c.Abort()
			return
		}

		// 검증 성공 - 사용자 정보를 context에 저장
		c.Set("userId", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("sessionId", claims.SessionID)

		c.Next()
	}
}
