package membership_test

import (
	"context"
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamspace-api/internal/membership"
)

var _ = Describe("Authority", func() {
	var (
		ctx       context.Context
		db        *sql.DB
		mock      sqlmock.Sqlmock
		authority *membership.Authority
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())
		authority = membership.NewAuthority(db)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		db.Close()
	})

	Describe("IsMember", func() {
		It("is true for an active membership row", func() {
			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("u1", "ws-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

			member, err := authority.IsMember(ctx, "u1", "ws-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(member).To(BeTrue())
		})

		It("is false once the membership is deactivated", func() {
			mock.ExpectQuery("SELECT EXISTS").
				WithArgs("u1", "ws-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

			member, err := authority.IsMember(ctx, "u1", "ws-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(member).To(BeFalse())
		})
	})

	Describe("RoleOf", func() {
		It("returns the membership role", func() {
			mock.ExpectQuery("SELECT role FROM memberships").
				WithArgs("u1", "ws-1").
				WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("admin"))

			role, err := authority.RoleOf(ctx, "u1", "ws-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal("admin"))
		})

		It("returns an empty role when there is no active membership", func() {
			mock.ExpectQuery("SELECT role FROM memberships").
				WithArgs("u1", "ws-1").
				WillReturnRows(sqlmock.NewRows([]string{"role"}))

			role, err := authority.RoleOf(ctx, "u1", "ws-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(""))
		})
	})

	Describe("RoleNames", func() {
		It("returns the user's global roles as a set", func() {
			mock.ExpectQuery("SELECT r.name").
				WithArgs("u1").
				WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("admin").AddRow("auditor"))

			names, err := authority.RoleNames(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal(map[string]bool{"admin": true, "auditor": true}))
		})
	})

	Describe("Flags", func() {
		It("treats an unknown user as neither staff nor superuser", func() {
			mock.ExpectQuery("SELECT is_staff, is_superuser").
				WithArgs("ghost").
				WillReturnRows(sqlmock.NewRows([]string{"is_staff", "is_superuser"}))

			staff, superuser, err := authority.Flags(ctx, "ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(staff).To(BeFalse())
			Expect(superuser).To(BeFalse())
		})
	})
})
