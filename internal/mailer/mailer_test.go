package mailer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"teamspace-api/internal/mailer"
)

var _ = Describe("Mailer", func() {
	Describe("StripTags", func() {
		It("reduces markup to its text content", func() {
			text := mailer.StripTags("<html><body><h1>Hello</h1><p>Click <a href=\"http://x\">here</a></p></body></html>")
			Expect(text).To(Equal("HelloClick here"))
		})

		It("passes plain text through", func() {
			Expect(mailer.StripTags("just text")).To(Equal("just text"))
		})
	})

	Describe("LogMailer", func() {
		It("derives a text body from an HTML-only message", func() {
			err := mailer.LogMailer{}.Send(mailer.Message{
				Subject: "Hi",
				To:      []string{"a@example.com"},
				HTML:    "<p>Hello</p>",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("fails a message with no body at all", func() {
			err := mailer.LogMailer{}.Send(mailer.Message{
				Subject: "Hi",
				To:      []string{"a@example.com"},
			})
			Expect(err).To(HaveOccurred())
		})

		It("fails a message with no recipients", func() {
			err := mailer.LogMailer{}.Send(mailer.Message{
				Subject: "Hi",
				Text:    "hello",
			})
			Expect(err).To(HaveOccurred())
		})
	})
})
