package i18n

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslateEnglish(t *testing.T) {
	assert.Equal(t, "Farmer not found", Translate(language.English, "Üretici bulunamadı"))
	assert.Equal(t, "Invalid request body", Translate(language.AmericanEnglish, "Geçersiz istek gövdesi"))
}

func TestTranslateTurkishPassthrough(t *testing.T) {
	assert.Equal(t, "Üretici bulunamadı", Translate(language.Turkish, "Üretici bulunamadı"))
}

func TestTranslateUnknownMessagePassthrough(t *testing.T) {
	assert.Equal(t, "katalogda olmayan metin", Translate(language.English, "katalogda olmayan metin"))
}

func TestMiddlewareNegotiatesAcceptLanguage(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/x", func(c *fiber.Ctx) error {
		return c.SendString(T(c, "Üretici bulunamadı"))
	})

	cases := []struct {
		header string
		want   string
	}{
		{"en-US,en;q=0.9", "Farmer not found"},
		{"tr-TR,tr;q=0.9", "Üretici bulunamadı"},
		{"", "Üretici bulunamadı"}, // varsayılan Türkçe
		{"de-DE", "Üretici bulunamadı"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", "/x", nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(body), "Accept-Language: %q", tc.header)
	}
}
