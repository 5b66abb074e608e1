package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"teamspace-api/internal/auth"
)

var _ = Describe("Verification and reset handlers", func() {
	var (
		router *gin.Engine
		db     *sql.DB
		mock   sqlmock.Sqlmock
		env    *testEnv
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)

		var err error
		db, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		env = newTestEnv(db)

		router = gin.New()
		router.GET("/auth/email/verify", env.handler.VerifyEmail)
		router.POST("/auth/password/reset", env.handler.RequestPasswordReset)
		router.POST("/auth/password/reset/confirm", env.handler.ConfirmPasswordReset)
	})

	AfterEach(func() {
		db.Close()
	})

	post := func(path string, payload any) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("VerifyEmail", func() {
		It("marks the subject verified for a fresh token", func() {
			token, err := env.tokens.IssueVerification("u1")
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectExec("UPDATE users SET is_email_verified").
				WithArgs("u1").
				WillReturnResult(sqlmock.NewResult(0, 1))

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/email/verify?token="+token, nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})

		It("rejects a replayed token with the generic message", func() {
			token, err := env.tokens.IssueVerification("u1")
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectExec("UPDATE users SET is_email_verified").
				WithArgs("u1").
				WillReturnResult(sqlmock.NewResult(0, 1))

			first := httptest.NewRecorder()
			router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/auth/email/verify?token="+token, nil))
			Expect(first.Code).To(Equal(http.StatusOK))

			second := httptest.NewRecorder()
			router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/auth/email/verify?token="+token, nil))
			Expect(second.Code).To(Equal(http.StatusBadRequest))
			Expect(second.Body.String()).To(ContainSubstring("Invalid or expired token"))
		})

		It("rejects an expired token with the same generic message", func() {
			expired := auth.NewTokens("test-secret", -time.Minute, time.Hour, &memConsumedStore{seen: map[string]bool{}})
			token, err := expired.IssueVerification("u1")
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/email/verify?token="+token, nil))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid or expired token"))
		})
	})

	Describe("RequestPasswordReset", func() {
		It("answers identically whether or not the email exists", func() {
			mock.ExpectQuery("SELECT id, password, email FROM users").
				WithArgs("ghost@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"id", "password", "email"}))

			missing := post("/auth/password/reset", gin.H{"email": "ghost@example.com"})

			mock.ExpectQuery("SELECT id, password, email FROM users").
				WithArgs("user@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"id", "password", "email"}).
					AddRow("u1", "hash", "user@example.com"))

			existing := post("/auth/password/reset", gin.H{"email": "user@example.com"})

			Expect(missing.Code).To(Equal(http.StatusOK))
			Expect(existing.Code).To(Equal(http.StatusOK))
			Expect(missing.Body.String()).To(Equal(existing.Body.String()))

			// Only the real account got mail.
			Expect(env.mailer.count()).To(Equal(1))
		})
	})

	Describe("ConfirmPasswordReset", func() {
		uid := base64.RawURLEncoding.EncodeToString([]byte("u1"))

		It("sets the new password for a valid token", func() {
			hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())

			token, err := env.tokens.IssueReset("u1", string(hash))
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectQuery("SELECT password FROM users").
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow(string(hash)))
			mock.ExpectExec("UPDATE users SET password").
				WithArgs(sqlmock.AnyArg(), "u1").
				WillReturnResult(sqlmock.NewResult(0, 1))

			w := post("/auth/password/reset/confirm", gin.H{
				"uid":          uid,
				"token":        token,
				"new_password": "new-password",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})

		It("rejects a token issued before the password last changed", func() {
			token, err := env.tokens.IssueReset("u1", "hash-before")
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectQuery("SELECT password FROM users").
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("hash-after"))

			w := post("/auth/password/reset/confirm", gin.H{
				"uid":          uid,
				"token":        token,
				"new_password": "new-password",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid or expired token"))
		})

		It("answers unknown users with the same generic message", func() {
			token, err := env.tokens.IssueReset("u1", "hash")
			Expect(err).NotTo(HaveOccurred())

			mock.ExpectQuery("SELECT password FROM users").
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows([]string{"password"}))

			w := post("/auth/password/reset/confirm", gin.H{
				"uid":          uid,
				"token":        token,
				"new_password": "new-password",
			})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid or expired token"))
		})
	})
})
