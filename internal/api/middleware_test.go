package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamspace-api/internal/api"
	"teamspace-api/internal/auth"
)

type memDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (d *memDenylist) Revoke(_ context.Context, jti string, _ time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[jti] = true
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[jti], nil
}

var _ = Describe("AuthMiddleware", func() {
	var (
		router   *gin.Engine
		sessions *auth.Sessions
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		sessions = auth.NewSessions("test-secret", time.Hour, &memDenylist{revoked: map[string]bool{}})

		router = gin.New()
		router.GET("/probe", api.AuthMiddleware(sessions), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
		})
	})

	probe := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("rejects requests without an Authorization header", func() {
		Expect(probe("").Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects malformed headers", func() {
		Expect(probe("Token abc").Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewSessions("other-secret", time.Hour, &memDenylist{revoked: map[string]bool{}})
		token, err := other.Issue("u1")
		Expect(err).NotTo(HaveOccurred())

		Expect(probe("Bearer " + token).Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects revoked sessions", func() {
		token, err := sessions.Issue("u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions.Revoke(context.Background(), token)).To(Succeed())

		Expect(probe("Bearer " + token).Code).To(Equal(http.StatusUnauthorized))
	})

	It("exposes the subject of a valid session", func() {
		token, err := sessions.Issue("u1")
		Expect(err).NotTo(HaveOccurred())

		w := probe("Bearer " + token)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"user_id":"u1"`))
	})
})
