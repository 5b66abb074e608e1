package tenancy_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamspace-api/internal/models"
	"teamspace-api/internal/tenancy"
)

var _ = Describe("Tenancy middleware", func() {
	var (
		router   *gin.Engine
		mock     sqlmock.Sqlmock
		resolved *models.Workspace
	)

	workspaceColumns := []string{"id", "name", "slug", "owner_id", "created_at"}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)

		db, m, err := sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		mock = m

		resolved = nil
		router = gin.New()
		router.Use(tenancy.Middleware(db))
		router.GET("/probe", func(c *gin.Context) {
			resolved = tenancy.FromContext(c)
			c.Status(http.StatusOK)
		})
	})

	It("binds no workspace when no identifier is supplied", func() {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resolved).To(BeNil())
	})

	It("resolves a workspace from the header", func() {
		mock.ExpectQuery("SELECT id, name, slug, owner_id, created_at").
			WithArgs("ws-1").
			WillReturnRows(sqlmock.NewRows(workspaceColumns).
				AddRow("ws-1", "Acme", "acme", "u1", time.Now()))

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(tenancy.HeaderName, "ws-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resolved).NotTo(BeNil())
		Expect(resolved.Slug).To(Equal("acme"))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("falls back to the query parameter", func() {
		mock.ExpectQuery("SELECT id, name, slug, owner_id, created_at").
			WithArgs("ws-1").
			WillReturnRows(sqlmock.NewRows(workspaceColumns).
				AddRow("ws-1", "Acme", "acme", nil, time.Now()))

		req := httptest.NewRequest(http.MethodGet, "/probe?workspace_id=ws-1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resolved).NotTo(BeNil())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("binds no workspace for an unresolvable identifier and does not fail the request", func() {
		mock.ExpectQuery("SELECT id, name, slug, owner_id, created_at").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(workspaceColumns))

		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(tenancy.HeaderName, "ghost")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(resolved).To(BeNil())
	})
})
