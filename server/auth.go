package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "cardsage_session"

// sessionManager issues and checks stateless admin session cookies. The
// cookie value is an HMAC over a fixed subject keyed by the session secret,
// so a restart invalidates nothing and no session store is needed.
type sessionManager struct {
	secret   []byte
	user     string
	password string
}

func newSessionManager(secret, user, password string) *sessionManager {
	return &sessionManager{
		secret:   []byte(secret),
		user:     user,
		password: password,
	}
}

func (m *sessionManager) token() string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte("admin:" + m.user))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *sessionManager) checkCredentials(user, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
	return userOK && passOK
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !s.sessions.checkCredentials(req.Username, req.Password) {
		s.logger.Warn("Failed admin login", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetCookie(sessionCookie, s.sessions.token(), 86400, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// requireAdmin guards mutating catalog routes behind the session cookie.
func (s *Server) requireAdmin(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.sessions.token())) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin session required"})
		return
	}
	c.Next()
}
